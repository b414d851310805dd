package timeline

import (
	"sort"

	"github.com/panbanda/cochange/pkg/analyzer/graph"
	"github.com/panbanda/cochange/pkg/models"
)

// candidate is the session being grown during the walk.
type candidate struct {
	commits []models.CommitRecord
	files   map[string]struct{}
	allNew  bool
}

// Sessions groups temporally adjacent commits into inferred generation
// sessions. A commit joins the open candidate when it falls inside the
// window of the candidate's last commit and the combined file set has
// coupling evidence: at least one qualifying pair between the commit's
// files and the candidate's, or every file involved is newly created.
// Commits must already be sorted by (timestamp, ID).
func (d *Detector) Sessions(commits []models.CommitRecord, g *graph.Graph) []models.Session {
	created := firstSeen(commits)

	var sessions []models.Session
	var cur *candidate

	for i := range commits {
		c := &commits[i]
		files := c.UniqueFiles()
		if len(files) == 0 || c.Timestamp.IsZero() {
			continue
		}

		commitAllNew := true
		for _, f := range files {
			if created[f] != c.ID {
				commitAllNew = false
				break
			}
		}

		if cur == nil {
			cur = open(c, files, commitAllNew)
			continue
		}

		last := cur.commits[len(cur.commits)-1]
		inWindow := c.Timestamp.Sub(last.Timestamp) <= d.sessionWindow
		if inWindow && (d.coupled(g, files, cur.files) || (cur.allNew && commitAllNew)) {
			cur.merge(c, files, commitAllNew)
			continue
		}

		sessions = append(sessions, cur.close(created))
		cur = open(c, files, commitAllNew)
	}
	if cur != nil {
		sessions = append(sessions, cur.close(created))
	}
	return sessions
}

// coupled reports whether any qualifying edge links the incoming files
// to the candidate's accumulated file set.
func (d *Detector) coupled(g *graph.Graph, incoming []string, accumulated map[string]struct{}) bool {
	if g == nil {
		return false
	}
	for _, f := range incoming {
		for other := range accumulated {
			if g.HasEdge(f, other) {
				return true
			}
		}
	}
	return false
}

func open(c *models.CommitRecord, files []string, allNew bool) *candidate {
	cand := &candidate{
		commits: []models.CommitRecord{*c},
		files:   make(map[string]struct{}, len(files)),
		allNew:  allNew,
	}
	for _, f := range files {
		cand.files[f] = struct{}{}
	}
	return cand
}

func (cand *candidate) merge(c *models.CommitRecord, files []string, allNew bool) {
	cand.commits = append(cand.commits, *c)
	for _, f := range files {
		cand.files[f] = struct{}{}
	}
	cand.allNew = cand.allNew && allNew
}

// close finalizes the candidate. The session is a creation event when
// the majority of its files first appear in history inside it.
func (cand *candidate) close(created map[string]string) models.Session {
	members := make(map[string]struct{}, len(cand.commits))
	ids := make([]string, 0, len(cand.commits))
	for i := range cand.commits {
		members[cand.commits[i].ID] = struct{}{}
		ids = append(ids, cand.commits[i].ID)
	}

	files := make([]string, 0, len(cand.files))
	newFiles := 0
	for f := range cand.files {
		files = append(files, f)
		if _, ok := members[created[f]]; ok {
			newFiles++
		}
	}
	sort.Strings(files)

	category := models.SessionModified
	if newFiles*2 > len(files) {
		category = models.SessionCreated
	}

	return models.Session{
		Commits:  ids,
		Files:    files,
		Start:    cand.commits[0].Timestamp,
		End:      cand.commits[len(cand.commits)-1].Timestamp,
		Category: category,
		NewFiles: newFiles,
	}
}
