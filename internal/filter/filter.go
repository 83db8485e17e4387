package filter

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Knetic/govaluate"

	"mqttop/internal/model"
)

// Criteria narrows the stream shown by the dashboard. Query is a plain
// case-insensitive substring over topic and payload, or a regex when
// written /like this/. Expr is a govaluate boolean expression over the
// parameters topic, payload, qos, and retain.
type Criteria struct {
	Query    string
	UseRegex bool
	Expr     string
}

func (c Criteria) Empty() bool {
	return strings.TrimSpace(c.Query) == "" && strings.TrimSpace(c.Expr) == ""
}

// String is the short form shown in the status line.
func (c Criteria) String() string {
	switch {
	case c.Expr != "":
		return c.Expr
	case c.UseRegex:
		return "/" + c.Query + "/"
	default:
		return c.Query
	}
}

// Parse interprets raw input: "expr:..." compiles as an expression,
// "/.../" as a regex, anything else as a substring query.
func Parse(raw string) Criteria {
	raw = strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(raw, "expr:"); ok {
		return Criteria{Expr: strings.TrimSpace(rest)}
	}
	if strings.HasPrefix(raw, "/") && strings.HasSuffix(raw, "/") && len(raw) > 2 {
		return Criteria{Query: raw[1 : len(raw)-1], UseRegex: true}
	}
	return Criteria{Query: raw}
}

type Evaluator struct {
	crit Criteria
	re   *regexp.Regexp
	expr *govaluate.EvaluableExpression
}

func NewEvaluator(c Criteria) (*Evaluator, error) {
	e := &Evaluator{crit: c}
	var err error
	if c.UseRegex && c.Query != "" {
		e.re, err = regexp.Compile(c.Query)
		if err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(c.Expr) != "" {
		e.expr, err = govaluate.NewEvaluableExpression(c.Expr)
		if err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Match reports whether the message passes the criteria. Expression errors
// (unknown parameter, type mismatch) count as non-matches.
func (e *Evaluator) Match(m *model.Message) bool {
	text := m.Topic
	if len(m.Payload) > 0 && utf8.Valid(m.Payload) {
		text += " " + string(m.Payload)
	}
	if e.crit.Query != "" {
		if e.re != nil {
			if !e.re.MatchString(text) {
				return false
			}
		} else if !strings.Contains(strings.ToLower(text), strings.ToLower(e.crit.Query)) {
			return false
		}
	}
	if e.expr != nil {
		params := map[string]any{
			"topic":   m.Topic,
			"payload": string(m.Payload),
			"qos":     float64(m.QoS),
			"retain":  m.Retain,
		}
		result, err := e.expr.Evaluate(params)
		if err != nil {
			return false
		}
		b, ok := result.(bool)
		if !ok || !b {
			return false
		}
	}
	return true
}
