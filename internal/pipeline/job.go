package pipeline

import (
	"fmt"

	"github.com/nao1215/urlcount/internal/model"
	"github.com/nao1215/urlcount/internal/source"
)

// Job describes one URL list to count.
type Job struct {
	// Path is the file to read, or source.StdinPath.
	Path string

	// Label names the list in results. Defaults to Path.
	Label string

	// Format is the layout of the list.
	Format source.Format

	// BaseURL resolves relative links in HTML lists.
	BaseURL string

	// IgnoreHosts are glob patterns of hosts dropped before counting.
	IgnoreHosts []string
}

// Name returns the label used for results of this job.
func (j Job) Name() string {
	if j.Label != "" {
		return j.Label
	}
	if j.Path == source.StdinPath {
		return "stdin"
	}
	return j.Path
}

// load reads the list of j and applies its ignore patterns.
func (j Job) load(rd *source.Reader) ([]string, int, error) {
	if j.BaseURL != "" {
		rd = rd.WithBase(j.BaseURL)
	}

	urls, err := rd.Load(j.Path, j.Format)
	if err != nil {
		return nil, 0, err
	}

	kept, ignored, err := source.Filter(urls, j.IgnoreHosts)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", j.Name(), err)
	}
	return kept, ignored, nil
}

// Count loads j and counts it. Load failures are recorded on the result.
func (j Job) Count(rd *source.Reader) *model.Result {
	urls, ignored, err := j.load(rd)
	if err != nil {
		return model.NewErrorResult(j.Name(), err)
	}
	r := model.NewResult(j.Name(), urls)
	r.Ignored = ignored
	return r
}
