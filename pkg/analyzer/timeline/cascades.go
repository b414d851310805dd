package timeline

import (
	"sort"

	"github.com/panbanda/cochange/pkg/analyzer/graph"
	"github.com/panbanda/cochange/pkg/models"
)

// Cascades detects fix cascades: a fix commit whose coupled files keep
// attracting further fixes within a bounded window. Growth is
// transitive — a fix touching B joins because A–B are coupled, and a
// later fix touching C joins through B even when C is not coupled to A.
// Cascades need a trigger plus at least one follow-on; a lone fix is
// not reported. Once a commit is claimed by a cascade it can neither
// seed nor extend another (first-claimed-wins).
// Commits must already be sorted by (timestamp, ID).
func (d *Detector) Cascades(commits []models.CommitRecord, g *graph.Graph) []models.Cascade {
	claimed := make(map[string]struct{})
	var cascades []models.Cascade

	for i := range commits {
		trigger := &commits[i]
		if trigger.Type != models.TypeFix || trigger.Timestamp.IsZero() {
			continue
		}
		if _, ok := claimed[trigger.ID]; ok {
			continue
		}
		files := trigger.UniqueFiles()
		if len(files) == 0 {
			continue
		}

		touched := make(map[string]struct{}, len(files))
		for _, f := range files {
			touched[f] = struct{}{}
		}
		members := []*models.CommitRecord{trigger}
		lastTS := trigger.Timestamp

		for j := i + 1; j < len(commits) && j-i <= d.cascadeMaxScan; j++ {
			next := &commits[j]
			if next.Timestamp.Sub(lastTS) > d.cascadeWindow {
				break
			}
			if next.Type != models.TypeFix {
				continue
			}
			if _, ok := claimed[next.ID]; ok {
				continue
			}
			nextFiles := next.UniqueFiles()
			if !qualifies(g, nextFiles, touched) {
				continue
			}

			if len(members) == 1 {
				claimed[trigger.ID] = struct{}{}
			}
			claimed[next.ID] = struct{}{}
			members = append(members, next)
			for _, f := range nextFiles {
				touched[f] = struct{}{}
			}
			lastTS = next.Timestamp
		}

		if len(members) < 2 {
			continue
		}
		cascades = append(cascades, buildCascade(members, touched))
	}
	return cascades
}

// qualifies reports whether a commit's files connect to the cascade's
// touched set: either by touching an already-touched file or by
// touching a file coupled above the inclusion threshold to one.
func qualifies(g *graph.Graph, files []string, touched map[string]struct{}) bool {
	for _, f := range files {
		if _, ok := touched[f]; ok {
			return true
		}
		if g == nil {
			continue
		}
		for t := range touched {
			if g.HasEdge(f, t) {
				return true
			}
		}
	}
	return false
}

func buildCascade(members []*models.CommitRecord, touched map[string]struct{}) models.Cascade {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	files := make([]string, 0, len(touched))
	for f := range touched {
		files = append(files, f)
	}
	sort.Strings(files)

	start := members[0].Timestamp
	end := members[len(members)-1].Timestamp
	return models.Cascade{
		Trigger:  ids[0],
		Commits:  ids,
		Files:    files,
		Depth:    len(members) - 1,
		Start:    start,
		End:      end,
		Duration: end.Sub(start),
	}
}
