package validator

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/miekg/dns"
	"github.com/wolf-joe/ros-patch/script"
	"golang.org/x/net/idna"
)

var (
	matchSubdomainReg = regexp.MustCompile(`match-subdomain=(yes|no)`)
	nameReg           = regexp.MustCompile(`name=(\S+)`)
	addressReg        = regexp.MustCompile(`address=(\S+)`)
	cidr4Reg          = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}/\d{1,2}$`)
)

// Issue 某一行上发现的问题
type Issue struct {
	Line    int // 从1开始
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("line %d: %s", i.Line, i.Message)
}

// Report 单个脚本文件的检查结果
type Report struct {
	File         string
	TotalLines   int
	CommandLines int
	Errors       []Issue
	Warnings     []Issue
}

// Passed 没有错误即通过，警告不影响结果
func (r *Report) Passed() bool {
	return len(r.Errors) == 0
}

func (r *Report) errorf(line int, format string, args ...interface{}) {
	r.Errors = append(r.Errors, Issue{Line: line, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) warnf(line int, format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, Issue{Line: line, Message: fmt.Sprintf(format, args...)})
}

// Print 输出检查结果
func (r *Report) Print(w io.Writer) {
	_, _ = fmt.Fprintf(w, "file: %s\n", r.File)
	_, _ = fmt.Fprintf(w, "  total lines: %d\n", r.TotalLines)
	_, _ = fmt.Fprintf(w, "  command lines: %d\n", r.CommandLines)
	if len(r.Errors) > 0 {
		_, _ = fmt.Fprintf(w, "  %d error(s):\n", len(r.Errors))
		for _, issue := range r.Errors {
			_, _ = fmt.Fprintf(w, "    [ERROR] %s\n", issue)
		}
	}
	if len(r.Warnings) > 0 {
		_, _ = fmt.Fprintf(w, "  %d warning(s):\n", len(r.Warnings))
		for _, issue := range r.Warnings {
			_, _ = fmt.Fprintf(w, "    [WARN] %s\n", issue)
		}
	}
	if len(r.Errors) == 0 && len(r.Warnings) == 0 {
		_, _ = fmt.Fprintln(w, "  no errors or warnings")
	}
}

func (r *Report) checkDNSAdd(num int, line string) {
	for _, param := range []string{"name", "type", "forward-to", "match-subdomain"} {
		if !strings.Contains(line, param+"=") {
			r.errorf(num, "missing %s parameter", param)
		}
	}
	if !matchSubdomainReg.MatchString(line) {
		r.errorf(num, "match-subdomain must be yes or no")
	}
	match := nameReg.FindStringSubmatch(line)
	if match == nil {
		return
	}
	name := match[1]
	if strings.Contains(name, "$") {
		r.warnf(num, "name contains variable %s", name)
		return
	}
	if !isASCII(name) {
		if ascii, err := idna.Lookup.ToASCII(name); err == nil {
			r.warnf(num, "name %s is not ASCII, use %s", name, ascii)
		} else {
			r.warnf(num, "name %s is not a valid IDN: %s", name, err)
		}
		return
	}
	if _, ok := dns.IsDomainName(name); !ok {
		r.warnf(num, "name %s is not a valid domain name", name)
	}
}

func (r *Report) checkAddressAdd(num int, line string) {
	if !strings.Contains(line, "address=") {
		r.errorf(num, "missing address parameter")
	}
	if !strings.Contains(line, "list=") {
		r.errorf(num, "missing list parameter")
	}
	match := addressReg.FindStringSubmatch(line)
	if match == nil {
		return
	}
	address := match[1]
	if strings.Contains(address, ".") && !cidr4Reg.MatchString(address) {
		r.warnf(num, "IPv4 CIDR format may be wrong: %s", address)
	}
	if strings.Contains(address, ":") && !strings.Contains(address, "/") {
		r.warnf(num, "IPv6 address lacks prefix length: %s", address)
	}
}

// ValidateText 逐行检查脚本内容。只做词法检查，不解释命令语义
func ValidateText(name, text string) *Report {
	r := &Report{File: name}
	lines := strings.Split(text, "\n")
	r.TotalLines = len(lines)
	for i, line := range lines {
		num := i + 1
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		r.CommandLines++

		if strings.Contains(line, script.CmdDNSAdd) {
			r.checkDNSAdd(num, line)
		}
		if strings.Contains(line, script.CmdAddressAdd) {
			r.checkAddressAdd(num, line)
		}
		if strings.Contains(line, script.CmdDNSRemove) || strings.Contains(line, script.CmdAddressDrop) {
			if !strings.Contains(line, "[find") {
				r.warnf(num, "remove command should use a [find] filter")
			}
		}
		if strings.HasPrefix(line, "/") && !strings.HasPrefix(line, script.CmdNamespace) {
			r.warnf(num, "command does not start with %s", script.CmdNamespace)
		}
	}
	return r
}

// ValidateFile 读取并检查脚本文件
func ValidateFile(filename string) (*Report, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read script %q failed: %w", filename, err)
	}
	return ValidateText(filename, string(data)), nil
}

func isASCII(s string) bool {
	for _, c := range s {
		if c > unicode.MaxASCII {
			return false
		}
	}
	return true
}
