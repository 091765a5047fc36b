package evaluation

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// String renders the ranked comparison as a plain table for the terminal.
func (r *Report) String() string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "RANK\tALGORITHM\tTOTAL\tMATCHED\tUNMATCHED\tBLOCKING\tLOAD\tAVG/MIN/MAX")
	for i, e := range r.Entries {
		if e.Failed {
			fmt.Fprintf(w, "%d\t%s\tfailed: %s\t\t\t\t\t\n", i+1, e.Strategy, e.FailureReason)
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%d\t%d\t%d\t%d-%d\t%.2f/%.2f/%.2f\n",
			i+1, e.Strategy, e.TotalScore, e.Matched, e.Unmatched, e.BlockingPairs,
			e.MinLoad, e.MaxLoad, e.AvgPairScore, e.MinPairScore, e.MaxPairScore,
		)
	}

	w.Flush()
	return sb.String()
}

// DumpToTmpFile writes the report as indented JSON to a temp file and
// returns its name.
func (r *Report) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "evaluation_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}
