// Profiling:
// go build ./profile/query
// go tool pprof -http=":8000" -nodefraction=0.001 ./query cpu.pprof

package main

import (
	"github.com/pkg/profile"
	"github.com/yuzudev/bento"
)

func main() {
	rounds := 50
	iters := 1000
	entities := 1000
	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for i := 0; i < rounds; i++ {
		w := bento.NewWorld(0, numEntities)
		t1 := w.NewTrait()
		t2 := w.NewTrait()
		banks, clauses := bento.MakeClauses([]bento.TraitID{t1}, []bento.TraitID{t2}, nil)
		q := bento.NewQuery(banks, clauses)
		w.RegisterQuery(q)

		ents := make([]bento.Entity, numEntities)
		for i := range ents {
			ents[i] = w.CreateEntity()
		}
		for j := 0; j < iters; j++ {
			for _, e := range ents {
				_ = w.AddTrait(e, t1)
			}
			for _, e := range q.Entities().Dense() {
				_ = w.Check(q, e)
			}
			for _, e := range ents {
				_ = w.RemoveTrait(e, t1)
			}
		}
	}
}
