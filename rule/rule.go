package rule

import "sort"

// Kind 规则类型
type Kind int

// 输出顺序与此处定义顺序一致
const (
	KindDomain Kind = iota
	KindDomainSuffix
	KindIPCIDR
	KindIPCIDR6
	kindCount
)

// Kinds 按输出顺序排列的全部规则类型
var Kinds = []Kind{KindDomain, KindDomainSuffix, KindIPCIDR, KindIPCIDR6}

var kindNames = [kindCount]string{"DOMAIN", "DOMAIN-SUFFIX", "IP-CIDR", "IP-CIDR6"}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "UNKNOWN"
	}
	return kindNames[k]
}

// Record 一条解析后的规则
type Record struct {
	Kind  Kind
	Value string
}

// Set 按类型分组的去重规则集合
type Set struct {
	values [kindCount]map[string]struct{}
}

// NewSet 返回一个空的规则集合
func NewSet() *Set {
	s := &Set{}
	for i := range s.values {
		s.values[i] = map[string]struct{}{}
	}
	return s
}

// Add 加入一条规则，规则已存在或值为空时返回false
func (s *Set) Add(kind Kind, value string) bool {
	if kind < 0 || kind >= kindCount || value == "" {
		return false
	}
	if _, ok := s.values[kind][value]; ok {
		return false
	}
	s.values[kind][value] = struct{}{}
	return true
}

// Has 判断规则是否存在
func (s *Set) Has(kind Kind, value string) bool {
	if kind < 0 || kind >= kindCount {
		return false
	}
	_, ok := s.values[kind][value]
	return ok
}

// Len 返回指定类型的规则数
func (s *Set) Len(kind Kind) int {
	if kind < 0 || kind >= kindCount {
		return 0
	}
	return len(s.values[kind])
}

// Total 返回全部规则数
func (s *Set) Total() (n int) {
	for _, m := range s.values {
		n += len(m)
	}
	return
}

// Sorted 返回指定类型的全部规则值，按字典序排列
func (s *Set) Sorted(kind Kind) []string {
	if kind < 0 || kind >= kindCount {
		return nil
	}
	ans := make([]string, 0, len(s.values[kind]))
	for val := range s.values[kind] {
		ans = append(ans, val)
	}
	sort.Strings(ans)
	return ans
}

// Records 按类型顺序、字典序返回全部规则
func (s *Set) Records() []Record {
	ans := make([]Record, 0, s.Total())
	for _, kind := range Kinds {
		for _, val := range s.Sorted(kind) {
			ans = append(ans, Record{Kind: kind, Value: val})
		}
	}
	return ans
}
