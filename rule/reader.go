package rule

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// 按匹配顺序排列的行前缀
var prefixes = []struct {
	prefix string
	kind   Kind
	cidr   bool // 只取逗号前的第一段，忽略no-resolve等选项
}{
	{"DOMAIN,", KindDomain, false},
	{"DOMAIN-SUFFIX,", KindDomainSuffix, false},
	{"IP-CIDR,", KindIPCIDR, true},
	{"IP-CIDR6,", KindIPCIDR6, true},
}

// ParseLine 解析一行规则。空行、注释行、未知类型及值为空的规则返回false
func ParseLine(line string) (Record, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Record{}, false
	}
	for _, p := range prefixes {
		if !strings.HasPrefix(line, p.prefix) {
			continue
		}
		val := line[len(p.prefix):]
		if p.cidr {
			if i := strings.Index(val, ","); i != -1 {
				val = val[:i]
			}
		}
		if val = strings.TrimSpace(val); val == "" {
			return Record{}, false
		}
		return Record{Kind: p.kind, Value: val}, true
	}
	return Record{}, false
}

// Parse 从reader中逐行读取规则
func Parse(reader io.Reader) (*Set, error) {
	set := NewSet()
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if rec, ok := ParseLine(scanner.Text()); ok {
			set.Add(rec.Kind, rec.Value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return set, nil
}

// ParseText 从文本内容读取规则
func ParseText(text string) *Set {
	set := NewSet()
	for _, line := range strings.Split(text, "\n") {
		if rec, ok := ParseLine(line); ok {
			set.Add(rec.Kind, rec.Value)
		}
	}
	return set
}

// ReadFile 从文件读取规则。文件不存在时返回的error满足errors.Is(err, fs.ErrNotExist)
func ReadFile(filename string) (*Set, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open rule file %q failed: %w", filename, err)
	}
	defer func() { _ = file.Close() }()
	set, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("read rule file %q failed: %w", filename, err)
	}
	return set, nil
}
