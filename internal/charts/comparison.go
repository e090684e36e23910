package charts

import "laborviz/internal/models"

const comparisonMessage = "International comparison data is not available yet. Figures for other countries have to be collected from the source data first."

// comparisonChart is a placeholder until per-country data exists
type comparisonChart struct{}

func (comparisonChart) render(f frame, _ models.Dataset, _ Options) renderResult {
	placeholder(f, comparisonMessage, 16)
	return renderResult{}
}
