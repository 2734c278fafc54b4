// Package stats turns loosely typed item records into WorkStatistics.
package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/okian/qscore/internal/domain/model"
)

// RawItem is one decoded JSON record.
type RawItem map[string]any

// Extractor converts a raw record into statistics.
type Extractor interface {
	Extract(item RawItem) (model.WorkStatistics, error)
}

// Field names, first name wins when aliases are both present.
var (
	fieldID        = []string{"id"}
	fieldHits      = []string{"hits"}
	fieldApprovals = []string{"approvals", "kudos"}
	fieldComments  = []string{"comments"}
	fieldBookmarks = []string{"bookmarks"}
	fieldWords     = []string{"words", "word_count"}
	fieldChapters  = []string{"chapters"}
	fieldPublished = []string{"published", "publish_date"}
)

// Accepted publish date layouts.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"02 Jan 2006",
}

// FieldExtractor is the default Extractor. Numbers may be JSON numbers or
// strings with thousands separators.
type FieldExtractor struct{}

// Extract implements Extractor. The returned error is a *FieldError.
func (FieldExtractor) Extract(item RawItem) (model.WorkStatistics, error) {
	var (
		ws  model.WorkStatistics
		err error
	)

	if ws.ID, err = extractID(item); err != nil {
		return model.WorkStatistics{}, err
	}
	if ws.Hits, err = requiredCount(item, fieldHits); err != nil {
		return model.WorkStatistics{}, err
	}
	if ws.Approvals, err = requiredCount(item, fieldApprovals); err != nil {
		return model.WorkStatistics{}, err
	}
	if ws.Comments, err = optionalCount(item, fieldComments, 0); err != nil {
		return model.WorkStatistics{}, err
	}
	if ws.Bookmarks, err = optionalCount(item, fieldBookmarks, 0); err != nil {
		return model.WorkStatistics{}, err
	}
	if ws.WordCount, err = optionalCount(item, fieldWords, 0); err != nil {
		return model.WorkStatistics{}, err
	}
	if ws.Chapters, err = extractChapters(item); err != nil {
		return model.WorkStatistics{}, err
	}
	ws.PublishDate = extractDate(item)

	return ws, nil
}

func lookup(item RawItem, names []string) (string, any, bool) {
	for _, n := range names {
		if v, ok := item[n]; ok && v != nil {
			return n, v, true
		}
	}
	return names[0], nil, false
}

func extractID(item RawItem) (string, error) {
	name, v, ok := lookup(item, fieldID)
	if !ok {
		return "", &FieldError{Field: name, Err: ErrMissingField}
	}
	var id string
	switch t := v.(type) {
	case string:
		id = strings.TrimSpace(t)
	case float64:
		id = strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		id = t.String()
	default:
		id = fmt.Sprint(t)
	}
	if id == "" {
		return "", &FieldError{Field: name, Err: ErrMissingField}
	}
	return id, nil
}

func requiredCount(item RawItem, names []string) (int, error) {
	name, v, ok := lookup(item, names)
	if !ok {
		return 0, &FieldError{Field: name, Err: ErrMissingField}
	}
	n, err := toCount(v)
	if err != nil {
		return 0, &FieldError{Field: name, Err: err}
	}
	return n, nil
}

func optionalCount(item RawItem, names []string, def int) (int, error) {
	name, v, ok := lookup(item, names)
	if !ok {
		return def, nil
	}
	n, err := toCount(v)
	if err != nil {
		return 0, &FieldError{Field: name, Err: err}
	}
	return n, nil
}

// extractChapters accepts "3", 3 or the "3/10" and "3/?" forms.
func extractChapters(item RawItem) (int, error) {
	name, v, ok := lookup(item, fieldChapters)
	if !ok {
		return 1, nil
	}
	if s, isString := v.(string); isString {
		if i := strings.IndexByte(s, '/'); i >= 0 {
			v = s[:i]
		}
	}
	n, err := toCount(v)
	if err != nil {
		return 0, &FieldError{Field: name, Err: err}
	}
	if n < 1 {
		n = 1
	}
	return n, nil
}

// extractDate returns the zero time for a missing or unparsable date.
func extractDate(item RawItem) time.Time {
	_, v, ok := lookup(item, fieldPublished)
	if !ok {
		return time.Time{}
	}
	s, isString := v.(string)
	if !isString {
		return time.Time{}
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func toCount(v any) (int, error) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNonNumericField, t.String())
		}
		f = parsed
	case string:
		clean := strings.ReplaceAll(strings.TrimSpace(t), ",", "")
		parsed, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNonNumericField, t)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrNonNumericField, v)
	}

	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return 0, fmt.Errorf("%w: %v", ErrNonNumericField, f)
	case f < 0:
		return 0, fmt.Errorf("%w: negative value %v", ErrNonNumericField, f)
	case f != math.Trunc(f):
		return 0, fmt.Errorf("%w: fractional value %v", ErrNonNumericField, f)
	case f > math.MaxInt32:
		return 0, fmt.Errorf("%w: value %v out of range", ErrNonNumericField, f)
	}
	return int(f), nil
}
