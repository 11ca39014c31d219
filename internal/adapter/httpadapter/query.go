package httpadapter

import (
	"errors"
	"math"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/couchcryptid/sea-level-chart/internal/domain"
)

var validate = validator.New()

// viewQuery holds the selection and geometry shared by the series, hit and
// chart routes.
type viewQuery struct {
	Primary string `validate:"required,max=100"`
	Compare string `validate:"max=100"`
	Width   int    `validate:"gte=400,lte=4000"`
	Height  int    `validate:"gte=300,lte=3000"`
	X       *float64
}

func (s *Server) parseViewQuery(values url.Values) (viewQuery, error) {
	q := viewQuery{
		Primary: values.Get("primary"),
		Compare: values.Get("compare"),
		Width:   s.deps.ChartWidth,
		Height:  s.deps.ChartHeight,
	}
	if q.Primary == "" {
		q.Primary = s.deps.DefaultCategory
	}

	if raw := values.Get("x"); raw != "" {
		x, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
			return q, errors.New("x must be a finite number")
		}
		q.X = &x
	}
	if raw := values.Get("width"); raw != "" {
		w, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("width must be an integer")
		}
		q.Width = w
	}
	if raw := values.Get("height"); raw != "" {
		h, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("height must be an integer")
		}
		q.Height = h
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// selection resolves the query into a selection the way the pickers would:
// "None" and the primary itself clear the comparison.
func (q viewQuery) selection() domain.SelectionState {
	return domain.SelectionState{Primary: q.Primary}.WithComparison(q.Compare)
}

// categoriesQuery holds the picker search parameters.
type categoriesQuery struct {
	Term    string `validate:"max=100"`
	Primary string `validate:"max=100"`
}
