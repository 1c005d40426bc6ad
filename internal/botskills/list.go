package botskills

import (
	"strings"
	"text/tabwriter"

	"github.com/maestrokit/maestro/internal/skills"
)

// List renders the connected skills as a table through the logger.
type List struct {
	Logger     *Logger
	SkillsFile string
}

// Execute prints the table and reports whether the file could be read.
func (l *List) Execute() bool {
	file, err := skills.ReadFile(l.SkillsFile)
	if err != nil {
		l.Logger.Error("There was an error while listing the Skills connected to your assistant:\n%v", err)
		return false
	}

	if len(file.Skills) == 0 {
		l.Logger.Message("There are no Skills connected to your assistant.")
		return true
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 2, 4, 2, ' ', 0)
	w.Write([]byte("ID\tNAME\tACTIONS\tENDPOINT\n"))
	for _, s := range file.Skills {
		actions := make([]string, 0, len(s.Actions))
		for _, a := range s.Actions {
			actions = append(actions, a.ID)
		}
		w.Write([]byte(s.ID + "\t" + s.Name + "\t" + strings.Join(actions, ", ") + "\t" + s.Endpoint + "\n"))
	}
	w.Flush()
	l.Logger.Message("%s", strings.TrimRight(b.String(), "\n"))
	return true
}
