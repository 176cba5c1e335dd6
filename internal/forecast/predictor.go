package forecast

import (
	"math"

	"github.com/quantfolio/quantfolio/internal/core"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// MinTrainingRows is the smallest feature table worth fitting.
const MinTrainingRows = 30

// Predictor fits an ordinary-least-squares model of next-day log
// returns on the engineered features. Returns are modeled instead of
// raw prices: the scale is stable across assets and time.
type Predictor struct {
	coeffs []float64 // intercept first
	logger *zap.Logger
}

// NewPredictor creates a new Predictor
func NewPredictor(logger ...*zap.Logger) *Predictor {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}
	return &Predictor{logger: l}
}

// Evaluation summarizes out-of-sample model quality.
type Evaluation struct {
	RMSE                float64 `json:"rmse"`
	DirectionalAccuracy float64 `json:"directional_accuracy"`
	TrainSize           int     `json:"train_size"`
	TestSize            int     `json:"test_size"`
}

// Forecast is the next-day prediction.
type Forecast struct {
	Price      float64 `json:"price"`
	Change     float64 `json:"change"`     // expected simple return
	Confidence float64 `json:"confidence"` // out-of-sample directional accuracy
}

// Fit estimates the OLS coefficients on the full table.
func (p *Predictor) Fit(table *FeatureTable) error {
	return p.fitRows(table.Rows)
}

func (p *Predictor) fitRows(rows []Row) error {
	if len(rows) < MinTrainingRows {
		return core.ErrInsufficientData
	}

	x := mat.NewDense(len(rows), NumFeatures+1, nil)
	y := mat.NewDense(len(rows), 1, nil)
	for i, row := range rows {
		x.Set(i, 0, 1) // intercept
		for j, f := range row.Features() {
			x.Set(i, j+1, f)
		}
		y.Set(i, 0, row.Target)
	}

	var qr mat.QR
	qr.Factorize(x)

	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, y); err != nil {
		return core.WrapError(core.ErrInsufficientData, err)
	}

	p.coeffs = make([]float64, NumFeatures+1)
	for j := range p.coeffs {
		p.coeffs[j] = beta.At(j, 0)
	}
	return nil
}

// Predict applies the fitted model to one feature vector.
func (p *Predictor) Predict(features []float64) float64 {
	if len(p.coeffs) == 0 || len(features) != NumFeatures {
		return 0
	}
	v := p.coeffs[0]
	for j, f := range features {
		v += p.coeffs[j+1] * f
	}
	return v
}

// Evaluate trains on the first 80% of the table and scores the rest.
// The split is chronological, never shuffled: a random split would
// leak future observations into training.
func (p *Predictor) Evaluate(table *FeatureTable) (*Evaluation, error) {
	rows := table.Rows
	if len(rows) < MinTrainingRows {
		return nil, core.ErrInsufficientData
	}

	split := int(float64(len(rows)) * 0.8)
	if split < MinTrainingRows {
		split = MinTrainingRows
	}
	if split >= len(rows) {
		return nil, core.ErrInsufficientData
	}

	train, test := rows[:split], rows[split:]
	if err := p.fitRows(train); err != nil {
		return nil, err
	}

	var sqErr float64
	var correct int
	for _, row := range test {
		pred := p.Predict(row.Features())
		diff := pred - row.Target
		sqErr += diff * diff
		if (pred >= 0) == (row.Target >= 0) {
			correct++
		}
	}

	eval := &Evaluation{
		RMSE:                math.Sqrt(sqErr / float64(len(test))),
		DirectionalAccuracy: float64(correct) / float64(len(test)),
		TrainSize:           len(train),
		TestSize:            len(test),
	}

	p.logger.Debug("forecast model evaluated",
		zap.Float64("rmse", eval.RMSE),
		zap.Float64("directional_accuracy", eval.DirectionalAccuracy),
		zap.Int("test_size", eval.TestSize),
	)

	return eval, nil
}

// PredictNext evaluates the model out-of-sample for a confidence
// score, refits on the full history, and projects the next day's
// price from the last observation.
func (p *Predictor) PredictNext(series core.PriceSeries) (*Forecast, error) {
	table, err := BuildFeatureTable(series)
	if err != nil {
		return nil, err
	}

	eval, err := p.Evaluate(table)
	if err != nil {
		return nil, err
	}

	if err := p.Fit(table); err != nil {
		return nil, err
	}

	features, err := NextFeatures(series)
	if err != nil {
		return nil, err
	}

	logReturn := p.Predict(features)
	lastPrice := series[len(series)-1].Price

	return &Forecast{
		Price:      lastPrice * math.Exp(logReturn),
		Change:     math.Exp(logReturn) - 1,
		Confidence: eval.DirectionalAccuracy,
	}, nil
}
