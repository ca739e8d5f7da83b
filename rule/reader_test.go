package rule

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var text = `# NAME: Test
# TOTAL: 9

DOMAIN,foo.com
DOMAIN, foo.com  
DOMAIN-SUFFIX,bar.com
DOMAIN-KEYWORD,google
IP-CIDR,1.2.3.4/32,no-resolve
IP-CIDR, 1.2.3.4/32
IP-CIDR6,2001:db8::/32,no-resolve
USER-AGENT,Foo*
DOMAIN,
IP-CIDR6, ,no-resolve
`

func TestParseLine(t *testing.T) {
	rec, ok := ParseLine("  DOMAIN-SUFFIX, example.com \r")
	assert.True(t, ok)
	assert.Equal(t, Record{Kind: KindDomainSuffix, Value: "example.com"}, rec)

	rec, ok = ParseLine("IP-CIDR6,2001:db8::/32,no-resolve")
	assert.True(t, ok)
	assert.Equal(t, Record{Kind: KindIPCIDR6, Value: "2001:db8::/32"}, rec)

	// 域名规则不按逗号拆分
	rec, ok = ParseLine("DOMAIN,a.com,extra")
	assert.True(t, ok)
	assert.Equal(t, "a.com,extra", rec.Value)

	for _, line := range []string{"", "   ", "# DOMAIN,a.com", "DOMAIN,", "DOMAIN-KEYWORD,a", "PROCESS-NAME,x", "domain,a.com"} {
		_, ok = ParseLine(line)
		assert.False(t, ok, line)
	}
}

func TestParseText(t *testing.T) {
	set := ParseText(text)
	assert.Equal(t, []string{"foo.com"}, set.Sorted(KindDomain))
	assert.Equal(t, []string{"bar.com"}, set.Sorted(KindDomainSuffix))
	assert.Equal(t, []string{"1.2.3.4/32"}, set.Sorted(KindIPCIDR))
	assert.Equal(t, []string{"2001:db8::/32"}, set.Sorted(KindIPCIDR6))
	assert.Equal(t, 4, set.Total())

	set = ParseText("# only comments\n\n   \n# DOMAIN,a.com\n")
	for _, kind := range Kinds {
		assert.Equal(t, 0, set.Len(kind))
	}

	other, err := Parse(strings.NewReader(text))
	assert.Nil(t, err)
	assert.Equal(t, ParseText(text).Records(), other.Records())
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "Test.list")
	// 文件不存在
	set, err := ReadFile(filename)
	assert.Nil(t, set)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	// 读取成功
	assert.Nil(t, os.WriteFile(filename, []byte(strings.ReplaceAll(text, "\n", "\r\n")), 0644))
	set, err = ReadFile(filename)
	assert.Nil(t, err)
	assert.Equal(t, 4, set.Total())
	// 目录无法按文件读取
	_, err = ReadFile(dir)
	assert.NotNil(t, err)
	assert.False(t, errors.Is(err, fs.ErrNotExist))
}
