package validator

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wolf-joe/ros-patch/aggregate"
	"github.com/wolf-joe/ros-patch/rule"
	"github.com/wolf-joe/ros-patch/script"
)

func TestAddressWarning(t *testing.T) {
	r := ValidateText("a.rsc", "/ip firewall address-list add address=10.0.0.1 list=auto_proxy_list")
	assert.Len(t, r.Errors, 0)
	assert.Len(t, r.Warnings, 1)
	assert.Equal(t, 1, r.Warnings[0].Line)
	assert.True(t, r.Passed())

	r = ValidateText("a.rsc", "/ip firewall address-list add address=2001:db8::1 list=auto_proxy_list")
	assert.Len(t, r.Errors, 0)
	assert.Len(t, r.Warnings, 1)

	// 无前缀的IPv6以外不做进一步检查
	r = ValidateText("a.rsc", "/ip firewall address-list add address=2001:zz::/999 list=auto_proxy_list")
	assert.Len(t, r.Warnings, 0)

	r = ValidateText("a.rsc", "/ip firewall address-list add comment=x")
	assert.Len(t, r.Errors, 2)
	assert.False(t, r.Passed())
}

func TestDNSErrors(t *testing.T) {
	r := ValidateText("a.rsc", "# header\n\n/ip dns static add name=foo.com type=FWD forward-to=$vpn_dns_server\n")
	assert.False(t, r.Passed())
	assert.GreaterOrEqual(t, len(r.Errors), 1)
	for _, issue := range r.Errors {
		assert.Equal(t, 3, issue.Line)
	}
	assert.Equal(t, 4, r.TotalLines)
	assert.Equal(t, 1, r.CommandLines)

	r = ValidateText("a.rsc", "/ip dns static add name=foo.com type=FWD forward-to=x match-subdomain=maybe")
	assert.Len(t, r.Errors, 1)
	assert.Equal(t, "line 1: match-subdomain must be yes or no", r.Errors[0].String())

	r = ValidateText("a.rsc", "/ip dns static add")
	assert.Len(t, r.Errors, 5)
}

func TestDNSWarnings(t *testing.T) {
	r := ValidateText("a.rsc", "/ip dns static add name=$host type=FWD forward-to=x match-subdomain=yes")
	assert.True(t, r.Passed())
	assert.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0].Message, "$host")

	r = ValidateText("a.rsc", "/ip dns static add name=bücher.de type=FWD forward-to=x match-subdomain=yes")
	assert.True(t, r.Passed())
	assert.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0].Message, "xn--bcher-kva.de")

	r = ValidateText("a.rsc", "/ip dns static add name=a..com type=FWD forward-to=x match-subdomain=yes")
	assert.True(t, r.Passed())
	assert.Len(t, r.Warnings, 1)
}

func TestOtherWarnings(t *testing.T) {
	text := "/ip dns static remove comment=x\n/ip firewall address-list remove [find list=\"l\"]\n/system reboot\n"
	r := ValidateText("a.rsc", text)
	assert.True(t, r.Passed())
	assert.Len(t, r.Warnings, 2)
	assert.Equal(t, 1, r.Warnings[0].Line)
	assert.Equal(t, 3, r.Warnings[1].Line)
	assert.Equal(t, 3, r.CommandLines)
}

func TestRoundTrip(t *testing.T) {
	agg := aggregate.New()
	agg.Merge("A", rule.ParseText("DOMAIN,foo.com\nIP-CIDR,1.2.3.4/32\nIP-CIDR6,2001:db8::/32"))
	agg.Merge("B", rule.ParseText("DOMAIN,foo.com\nDOMAIN-SUFFIX,bar.com\nIP-CIDR,10.0.0.0/8,no-resolve"))
	g := script.NewGenerator(script.Options{DNSServer: "$vpn_dns_server", AddressList: "auto_proxy_list"},
		func() time.Time { return time.Unix(0, 0) })

	r := ValidateText("apply", script.Render(g.Apply(agg, []string{"A", "B"})))
	assert.True(t, r.Passed())
	assert.Len(t, r.Errors, 0)
	assert.Len(t, r.Warnings, 0)
	assert.Equal(t, 5, r.CommandLines)

	r = ValidateText("clean", script.Render(g.Clean()))
	assert.True(t, r.Passed())
	assert.Len(t, r.Warnings, 0)
	assert.Equal(t, 4, r.TotalLines)
	assert.Equal(t, 2, r.CommandLines)
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "auto_proxy_patch.rsc")
	_, err := ValidateFile(filename)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	assert.Nil(t, os.WriteFile(filename, []byte("/ip dns static add name=a.com\n"), 0644))
	r, err := ValidateFile(filename)
	assert.Nil(t, err)
	assert.Equal(t, filename, r.File)
	assert.False(t, r.Passed())

	buf := new(bytes.Buffer)
	r.Print(buf)
	assert.Contains(t, buf.String(), "total lines: 2")
	assert.Contains(t, buf.String(), "4 error(s)")
	assert.Contains(t, buf.String(), "[ERROR] line 1: missing type parameter")

	buf.Reset()
	ValidateText("ok", "# nothing\n").Print(buf)
	assert.Contains(t, buf.String(), "no errors or warnings")
}
