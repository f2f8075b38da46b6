/*
Package fds implements the fraud detection system's rule evaluation engine.

A transaction is evaluated against every enabled detection rule. Rules carry
a loosely structured condition set that is decoded once into typed checks
(amount threshold, velocity, unusual hours); a rule whose conditions decode
to no recognized checks never triggers. When any check inside a rule trips,
the rule is triggered and contributes the maximum score across its checks.

Triggered rules are aggregated into a per-transaction risk score (the mean of
the triggered contributions, capped at 100) and one alert draft per triggered
rule. A transaction that trips nothing yields score 0 and level low; that is
a valid outcome, not an error.

Usage:

	evaluator := fds.NewEvaluator(txRepo, logger)
	svc := fds.NewService(ruleRepo, alertRepo, evaluator, auditor, nil, scoreCache, logger)

	result, err := svc.EvaluateTransaction(ctx, tx)
*/
package fds
