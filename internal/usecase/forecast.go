package usecase

import (
	"GoldCast/internal/domain/models"
	domsvc "GoldCast/internal/domain/service"
	"GoldCast/internal/services/analytics"
	"GoldCast/pkg/logger"
)

// Forecast is the full output of one prediction cycle before it becomes a Prediction.
type Forecast struct {
	CurrentPrice   float64
	Conditions     models.MarketConditions
	Components     []models.ComponentPrediction
	Weights        models.Weights
	PredictedPrice float64
	Confidence     float64
	Signal         SignalOutput
	Fallbacks      []string
}

// Forecaster runs classifier -> predictors -> adapter -> combiner -> confidence -> signal.
// It is stateless; callers pass copies of the engine state.
type Forecaster struct {
	classifier domsvc.Classifier
	predictors []domsvc.Predictor
	log        *logger.Logger
}

func NewForecaster(classifier domsvc.Classifier, predictors []domsvc.Predictor, log *logger.Logger) *Forecaster {
	if classifier == nil {
		classifier = analytics.NewMarketClassifier()
	}
	if len(predictors) == 0 {
		predictors = analytics.DefaultPredictors()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Forecaster{classifier: classifier, predictors: predictors, log: log}
}

// Run never fails; every stage that falls back is listed in Forecast.Fallbacks.
func (f *Forecaster) Run(window []models.PricePoint, base models.Weights, confidenceBase float64, history []float64) Forecast {
	out := Forecast{}
	if n := len(window); n > 0 {
		out.CurrentPrice = window[n-1].Price
	}

	note := func(stage string, fallback bool, err error) {
		if !fallback {
			return
		}
		out.Fallbacks = append(out.Fallbacks, stage)
		f.log.Warn("forecast stage fell back", logger.String("stage", stage), logger.Error(err))
	}

	cond := f.classifier.Classify(window)
	note("classifier", cond.Fallback, cond.Err)
	out.Conditions = cond.Value

	for _, p := range f.predictors {
		r := p.Predict(window)
		note(string(p.Name()), r.Fallback, r.Err)
		out.Components = append(out.Components, r.Value)
	}

	w := AdaptWeights(base, out.Conditions, history)
	note("weights", w.Fallback, w.Err)
	out.Weights = w.Value

	ens := Combine(out.Components, out.Weights, out.CurrentPrice)
	note("combiner", ens.Fallback, ens.Err)
	out.PredictedPrice = ens.Value

	conf := Confidence(confidenceBase, out.Conditions, history)
	note("confidence", conf.Fallback, conf.Err)
	out.Confidence = conf.Value

	sig := GenerateSignal(out.PredictedPrice, out.CurrentPrice, out.Confidence)
	note("signal", sig.Fallback, sig.Err)
	out.Signal = sig.Value

	return out
}
