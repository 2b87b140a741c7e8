// Package health reports whether breedfetch can serve lookups.
//
// A Checker reports one component: the remote catalog, the circuit breaker
// guarding it, the lookup cache or process memory. The Aggregator runs
// checkers together and folds their results into one Status, and the HTTP
// handlers expose that status as liveness, readiness and detail probes.
//
//	agg := health.NewAggregator()
//	agg.Register("catalog", health.NewCatalogChecker(client, health.CatalogCheckerConfig{}))
//	agg.Register("circuit", health.NewCircuitChecker(exec.CircuitBreaker()))
//	agg.Register("cache", health.NewCacheChecker(cache))
//
//	report := agg.Run(ctx)
//	fmt.Println(report.Status)
//
//	mux := http.NewServeMux()
//	health.RegisterHandlers(mux, agg)
package health
