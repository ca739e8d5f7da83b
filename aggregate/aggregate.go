package aggregate

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/wolf-joe/ros-patch/rule"
	"github.com/wolf-joe/ros-patch/utils"
)

// SiteStat 单个站点的读取结果
type SiteStat struct {
	Site    string
	File    string
	Skipped bool
	Counts  map[rule.Kind]int
}

// Aggregate 全部站点合并后的规则，以及每条规则的来源站点
type Aggregate struct {
	Rules  *rule.Set
	origin map[rule.Record]string
	Stats  []SiteStat
}

// New 返回一个空的Aggregate
func New() *Aggregate {
	return &Aggregate{Rules: rule.NewSet(), origin: map[rule.Record]string{}}
}

// Merge 将站点的规则并入全局集合。规则的来源只记录首个提供它的站点
func (a *Aggregate) Merge(site string, set *rule.Set) {
	for _, rec := range set.Records() {
		a.Rules.Add(rec.Kind, rec.Value)
		if _, ok := a.origin[rec]; !ok {
			a.origin[rec] = site
		}
	}
}

// Origin 返回规则的来源站点，未知规则返回空串
func (a *Aggregate) Origin(kind rule.Kind, value string) string {
	return a.origin[rule.Record{Kind: kind, Value: value}]
}

// SitePath 返回站点规则文件路径：<base>/<site>/<site>.list
func SitePath(baseDir, site string) string {
	return filepath.Join(baseDir, site, site+".list")
}

// Collect 按给定顺序读取每个站点的规则文件并合并。规则文件不存在的站点会被跳过
func Collect(ctx context.Context, baseDir string, sites []string) (*Aggregate, error) {
	agg := New()
	for _, site := range sites {
		filename := SitePath(baseDir, site)
		siteCtx := utils.WithFields(ctx, logrus.Fields{"site": site})
		utils.CtxInfo(siteCtx, "process site %s, rule file: %s", site, filename)
		stat := SiteStat{Site: site, File: filename}

		set, err := rule.ReadFile(filename)
		if errors.Is(err, fs.ErrNotExist) {
			utils.CtxWarn(siteCtx, "rule file not found, skip site %s", site)
			stat.Skipped = true
			agg.Stats = append(agg.Stats, stat)
			continue
		}
		if err != nil {
			utils.CtxError(siteCtx, "read site %s error: %s", site, err)
			return nil, err
		}

		agg.Merge(site, set)
		stat.Counts = make(map[rule.Kind]int, len(rule.Kinds))
		for _, kind := range rule.Kinds {
			stat.Counts[kind] = set.Len(kind)
			utils.CtxInfo(siteCtx, "  - %s: %d", kind, set.Len(kind))
		}
		agg.Stats = append(agg.Stats, stat)
	}
	return agg, nil
}
