package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"github.com/wolf-joe/ros-patch/script"
	"github.com/wolf-joe/ros-patch/utils"
)

// 默认配置
const (
	DefaultFile        = "ros-patch.toml"
	DefaultRuleDir     = "ios_rule_script/rule/Clash"
	DefaultApplyFile   = "auto_proxy_patch.rsc"
	DefaultCleanFile   = "auto_proxy_clean_patch.rsc"
	DefaultDNSServer   = "$vpn_dns_server"
	DefaultAddressList = "auto_proxy_list"
	DefaultLogLevel    = "info"
)

// DefaultSites 未配置sites时使用的站点列表，顺序决定规则来源的归属
var DefaultSites = []string{
	"Google", "YouTube", "Telegram", "Twitter", "GitHub", "OpenAI", "Wikipedia", "Netflix",
}

// Conf 配置文件对应的结构
type Conf struct {
	RuleDir     string   `toml:"rule_dir"`
	Sites       []string `toml:"sites"`
	ApplyFile   string   `toml:"apply_file"`
	CleanFile   string   `toml:"clean_file"`
	DNSServer   string   `toml:"dns_server"`
	AddressList string   `toml:"address_list"`
	LogLevel    string   `toml:"log_level"`
}

// Default 返回全部使用默认值的配置
func Default() *Conf {
	conf := &Conf{}
	conf.fillDefault()
	return conf
}

func (c *Conf) fillDefault() {
	if c.RuleDir == "" {
		c.RuleDir = DefaultRuleDir
	}
	if len(c.Sites) == 0 {
		c.Sites = append([]string(nil), DefaultSites...)
	}
	if c.ApplyFile == "" {
		c.ApplyFile = DefaultApplyFile
	}
	if c.CleanFile == "" {
		c.CleanFile = DefaultCleanFile
	}
	if c.DNSServer == "" {
		c.DNSServer = DefaultDNSServer
	}
	if c.AddressList == "" {
		c.AddressList = DefaultAddressList
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Validate 检查配置有效性
func (c *Conf) Validate() error {
	seen := make(map[string]bool, len(c.Sites))
	for i, site := range c.Sites {
		if strings.TrimSpace(site) == "" {
			return fmt.Errorf("sites[%d] is empty", i)
		}
		if strings.ContainsAny(site, `/\`) {
			return fmt.Errorf("site %q contains path separator", site)
		}
		if seen[site] {
			return fmt.Errorf("duplicate site %q", site)
		}
		seen[site] = true
	}
	if strings.ContainsAny(c.AddressList, " \t\"") {
		return fmt.Errorf("invalid address_list %q", c.AddressList)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

// ScriptOptions 返回生成脚本所需的参数
func (c *Conf) ScriptOptions() script.Options {
	return script.Options{DNSServer: c.DNSServer, AddressList: c.AddressList}
}

// NewConfFromText 从文本中读取配置
func NewConfFromText(ctx context.Context, text string) (*Conf, error) {
	conf := &Conf{}
	if _, err := toml.Decode(text, conf); err != nil {
		utils.CtxError(ctx, "decode toml error: %s", err)
		return nil, err
	}
	conf.fillDefault()
	if err := conf.Validate(); err != nil {
		utils.CtxError(ctx, "check config error: %s", err)
		return nil, err
	}
	return conf, nil
}

// NewConfFromFile 从文件中读取配置。optional为true且文件不存在时返回默认配置
func NewConfFromFile(ctx context.Context, file string, optional bool) (*Conf, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			utils.CtxDebug(ctx, "config file %q not found, use default", file)
			return Default(), nil
		}
		utils.CtxError(ctx, "read file %q error: %s", file, err)
		return nil, err
	}
	return NewConfFromText(ctx, string(data))
}
