// Profiling:
// go build ./profile/destroy
// go tool pprof -http=":8000" -nodefraction=0.001 ./destroy mem.pprof

package main

import (
	"github.com/pkg/profile"
	"github.com/yuzudev/bento"
)

// linkTable is a throwaway relation store for cascade profiling.
type linkTable struct {
	policy  bento.AutoDestroyPolicy
	sources map[bento.Entity][]bento.Entity
	targets map[bento.Entity][]bento.Entity
}

func newLinkTable(policy bento.AutoDestroyPolicy) *linkTable {
	return &linkTable{
		policy:  policy,
		sources: make(map[bento.Entity][]bento.Entity),
		targets: make(map[bento.Entity][]bento.Entity),
	}
}

func (l *linkTable) link(src, tgt bento.Entity) {
	l.targets[src] = append(l.targets[src], tgt)
	l.sources[tgt] = append(l.sources[tgt], src)
}

func (l *linkTable) Policy() bento.AutoDestroyPolicy { return l.policy }

func (l *linkTable) SourcesOf(t bento.Entity) []bento.Entity {
	return append([]bento.Entity(nil), l.sources[t]...)
}

func (l *linkTable) TargetsOf(s bento.Entity) []bento.Entity {
	return append([]bento.Entity(nil), l.targets[s]...)
}
func (l *linkTable) HasPair(e bento.Entity, f bento.RelationFilter) bool {
	for _, t := range l.targets[e] {
		if t == f.Target {
			return true
		}
	}
	return false
}

func (l *linkTable) Unlink(src, tgt bento.Entity) {
	out := l.targets[src]
	for i, t := range out {
		if t == tgt {
			l.targets[src] = append(out[:i], out[i+1:]...)
			break
		}
	}
	in := l.sources[tgt]
	for i, s := range in {
		if s == src {
			l.sources[tgt] = append(in[:i], in[i+1:]...)
			break
		}
	}
}

func main() {
	rounds := 50
	children := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, children)
	p.Stop()
}

func run(rounds, children int) {
	for i := 0; i < rounds; i++ {
		w := bento.NewWorld(0, children+1)
		childOf := newLinkTable(bento.DestroySource)
		w.RegisterRelation(childOf)

		parent := w.CreateEntity()
		for j := 0; j < children; j++ {
			c := w.CreateEntity()
			childOf.link(c, parent)
		}
		if err := w.Destroy(parent); err != nil {
			panic(err)
		}
	}
}
