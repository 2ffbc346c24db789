package domain

// SummaryStatus distinguishes "the service produced nothing" from "the call
// failed" so callers do not have to infer it from empty strings.
type SummaryStatus string

const (
	SummaryOK     SummaryStatus = "ok"
	SummaryEmpty  SummaryStatus = "empty"
	SummaryFailed SummaryStatus = "failed"
)

// SummaryResult is the outcome of one streaming summary session. Title and
// Content are the concatenation of all chunks in arrival order.
type SummaryResult struct {
	Title   string
	Content string
	Status  SummaryStatus
	Err     error
}

// HasContent reports whether the result carries appendable summary text.
func (r SummaryResult) HasContent() bool {
	return r.Status == SummaryOK && r.Content != ""
}
