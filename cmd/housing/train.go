package main

import (
	"fmt"

	"github.com/RefaMuhammad/Predictive-Analytics/pkg/dataprep"
	"github.com/RefaMuhammad/Predictive-Analytics/pkg/model"
)

// topImportances is how many features are listed per ensemble.
const topImportances = 15

type candidate struct {
	name string
	new  model.Factory
}

// train compares the regressors on the held-out rows, then refits each on
// a reduced feature set.
func (a *app) train(names []string, Xtr [][]float64, ytr []float64, Xte [][]float64, yte []float64) error {
	seed := a.cfg.Seed
	candidates := []candidate{
		{"Random Forest", func() model.Model {
			return model.NewRandomForestRegressor(model.WithNEstimators(a.cfg.NEstimators), model.WithForestSeed(seed))
		}},
		{"Linear Regression", func() model.Model { return model.NewLinearRegression() }},
		{"Gradient Boosting", func() model.Model {
			return model.NewGradientBoostingRegressor(model.WithStages(a.cfg.NEstimators), model.WithBoostingSeed(seed))
		}},
	}

	a.rep.Section("Model comparison")
	fitted := make(map[string]model.Model, len(candidates))
	for _, c := range candidates {
		m := c.new()
		score, err := model.Evaluate(m, Xtr, ytr, Xte, yte)
		if err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		a.log.Debug("model evaluated", "model", c.name, "rmse", score.RMSE, "r2", score.R2)
		a.rep.Score(c.name, score)
		fitted[c.name] = m
	}

	a.rep.Section("Feature selection by importance")
	for _, c := range candidates {
		imp, ok := fitted[c.name].(model.Importancer)
		if !ok {
			continue
		}
		importances := imp.FeatureImportances()
		a.rep.Importances(names, importances, topImportances)
		selected := model.SelectAboveMean(names, importances)
		score, err := a.evaluateOn(c.new(), names, selected, Xtr, ytr, Xte, yte)
		if err != nil {
			return fmt.Errorf("%s on selected features: %w", c.name, err)
		}
		a.rep.Selected(c.name+" (above-mean importance)", selected, score)
	}

	return a.lassoSelection(names, Xtr, ytr, Xte, yte)
}

// lassoSelection picks alpha by cross-validation, keeps the features with
// a non-zero Lasso coefficient and refits ordinary least squares on them.
func (a *app) lassoSelection(names []string, Xtr [][]float64, ytr []float64, Xte [][]float64, yte []float64) error {
	lp := a.plan.Lasso
	if len(lp.Alphas) == 0 {
		return nil
	}
	a.rep.Section("Lasso feature selection")
	grid, err := model.GridSearchLasso(Xtr, ytr, lp.Alphas, lp.Folds)
	if err != nil {
		return fmt.Errorf("lasso grid search: %w", err)
	}
	a.rep.Grid(grid)
	a.log.Info("lasso alpha chosen", "alpha", grid.BestAlpha, "cv_r2", grid.BestScore)

	lasso := model.NewLasso(grid.BestAlpha)
	if lp.MaxIter > 0 {
		lasso.MaxIter = lp.MaxIter
	}
	if err := lasso.Fit(Xtr, ytr); err != nil {
		return fmt.Errorf("lasso: %w", err)
	}
	if !lasso.Converged {
		a.log.Warn("lasso did not converge", "alpha", grid.BestAlpha, "iterations", lasso.Iter)
	}
	selected := model.SelectNonZero(names, lasso.Coef(), lp.CoefTol)
	if len(selected) == 0 {
		a.log.Warn("lasso kept no features", "alpha", grid.BestAlpha)
		return nil
	}
	score, err := a.evaluateOn(model.NewLinearRegression(), names, selected, Xtr, ytr, Xte, yte)
	if err != nil {
		return fmt.Errorf("linear regression on lasso features: %w", err)
	}
	a.rep.Selected("Linear Regression (Lasso features)", selected, score)
	return nil
}

func (a *app) evaluateOn(m model.Model, names, selected []string, Xtr [][]float64, ytr []float64, Xte [][]float64, yte []float64) (model.Score, error) {
	if len(selected) == 0 {
		return model.Score{}, fmt.Errorf("no features selected")
	}
	xs, err := dataprep.SelectByName(Xtr, names, selected)
	if err != nil {
		return model.Score{}, err
	}
	xt, err := dataprep.SelectByName(Xte, names, selected)
	if err != nil {
		return model.Score{}, err
	}
	a.log.Debug("refitting on selected features", "features", len(selected))
	return model.Evaluate(m, xs, ytr, xt, yte)
}
