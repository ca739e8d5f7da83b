package script

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/wolf-joe/ros-patch/aggregate"
	"github.com/wolf-joe/ros-patch/rule"
)

// 脚本中用到的RouterOS命令
const (
	CmdNamespace   = "/ip"
	CmdDNSAdd      = "/ip dns static add"
	CmdDNSRemove   = "/ip dns static remove"
	CmdAddressAdd  = "/ip firewall address-list add"
	CmdAddressDrop = "/ip firewall address-list remove"

	// DNSTag 规则来源注释前缀，清理脚本依据它删除DNS条目
	DNSTag = "vpn-dns:"
	// AddressTag address-list条目的来源注释前缀
	AddressTag = "vpn:"

	TimeLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Options 生成脚本所需的路由器侧参数
type Options struct {
	DNSServer   string // forward-to的值，通常是脚本变量，如$vpn_dns_server
	AddressList string // address-list名称
}

// Generator 把合并后的规则渲染成RouterOS脚本
type Generator struct {
	opts Options
	now  func() time.Time
}

// NewGenerator 创建Generator，now为空时使用time.Now
func NewGenerator(opts Options, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{opts: opts, now: now}
}

// DNSLine 生成一条DNS静态转发规则
func (g *Generator) DNSLine(domain string, matchSubdomain bool, site string) string {
	match := "no"
	if matchSubdomain {
		match = "yes"
	}
	return fmt.Sprintf(`%s name=%s type=FWD forward-to=%s address-list=%s match-subdomain=%s comment="%s %s"`,
		CmdDNSAdd, domain, g.opts.DNSServer, g.opts.AddressList, match, DNSTag, site)
}

// AddressLine 生成一条address-list规则
func (g *Generator) AddressLine(address, site string) string {
	return fmt.Sprintf(`%s address=%s comment="%s %s" list=%s`,
		CmdAddressAdd, address, AddressTag, site, g.opts.AddressList)
}

// Apply 生成添加规则的脚本
func (g *Generator) Apply(agg *aggregate.Aggregate, sites []string) []string {
	lines := []string{
		"# RouterOS auto proxy rules",
		"# Generated at: " + g.now().UTC().Format(TimeLayout),
		"# Sites: " + strings.Join(sites, ", "),
		"",
		"# DNS resolution rules",
		"",
	}
	for _, domain := range agg.Rules.Sorted(rule.KindDomain) {
		lines = append(lines, g.DNSLine(domain, false, agg.Origin(rule.KindDomain, domain)))
	}
	lines = append(lines, "", "# DOMAIN-SUFFIX rules", "")
	for _, domain := range agg.Rules.Sorted(rule.KindDomainSuffix) {
		lines = append(lines, g.DNSLine(domain, true, agg.Origin(rule.KindDomainSuffix, domain)))
	}
	lines = append(lines, "", "# IP address-list rules", "")
	for _, kind := range []rule.Kind{rule.KindIPCIDR, rule.KindIPCIDR6} {
		for _, cidr := range agg.Rules.Sorted(kind) {
			lines = append(lines, g.AddressLine(cidr, agg.Origin(kind, cidr)))
		}
	}
	return lines
}

// Clean 生成清理脚本，内容与规则无关
func (g *Generator) Clean() []string {
	return []string{
		"# Remove auto proxy rules",
		fmt.Sprintf(`%s [find comment~"%s"]`, CmdDNSRemove, DNSTag),
		fmt.Sprintf(`%s [find list="%s"]`, CmdAddressDrop, g.opts.AddressList),
	}
}

// Render 将各行拼接成文本，以换行结尾
func Render(lines []string) string {
	return strings.Join(lines, "\n") + "\n"
}

// WriteFile 将脚本写入文件
func WriteFile(filename string, lines []string) error {
	if err := os.WriteFile(filename, []byte(Render(lines)), 0644); err != nil {
		return fmt.Errorf("write script %q failed: %w", filename, err)
	}
	return nil
}
