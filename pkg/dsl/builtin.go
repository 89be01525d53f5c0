package dsl

import "github.com/aretw0/nexus/pkg/domain"

// BuiltinScene returns the stock demo scene: the analytics constellation
// the engine was originally tuned around. Roughly a third of the nodes per
// category, wired so every node has at least one edge.
func BuiltinScene() *domain.Definition {
	b := New("nexus").Title("Nexus Analytics Constellation")

	b.ML("neural-core").Label("Neural Core").
		Link("model-registry").
		Link("feature-store")
	b.ML("model-registry").Label("Model Registry").
		Link("shap-explainer")
	b.ML("feature-store").Label("Feature Store").
		Link("emotion-analytics")
	b.ML("shap-explainer").Label("SHAP Explainer").
		Link("fair-lending")
	b.ML("emotion-analytics").Label("Emotion Analytics").
		Link("member-360")
	b.ML("credit-scorer").Label("Credit Scorer").
		Link("neural-core").
		Link("underwriting")
	b.ML("churn-predictor").Label("Churn Predictor").
		Link("member-360")

	b.Financial("ledger").Label("Ledger").
		Link("exec-dashboard").
		Link("lending-calc")
	b.Financial("lending-calc").Label("Lending Calculator").
		Link("underwriting")
	b.Financial("underwriting").Label("Underwriting").
		Link("fair-lending")
	b.Financial("exec-dashboard").Label("Executive Dashboard").
		Link("portfolio-view")
	b.Financial("portfolio-view").Label("Portfolio View").
		Link("market-feed")
	b.Financial("market-feed").Label("Market Feed").
		Link("rate-engine")
	b.Financial("rate-engine").Label("Rate Engine").
		Link("lending-calc")
	b.Financial("member-360").Label("Member 360").
		Link("exec-dashboard")

	b.Advanced("fair-lending").Label("Fair Lending Guard").
		Link("audit-trail")
	b.Advanced("audit-trail").Label("Audit Trail").
		Link("ledger")
	b.Advanced("anomaly-watch").Label("Anomaly Watch").
		Link("market-feed").
		Link("audit-trail")
	b.Advanced("scenario-sim").Label("Scenario Simulator").
		Link("portfolio-view").
		Link("rate-engine")
	b.Advanced("stress-test").Label("Stress Test").
		Link("scenario-sim")
	b.Advanced("graph-insights").Label("Graph Insights").
		Link("neural-core").
		Link("anomaly-watch")
	b.Advanced("quantum-lab").Label("Quantum Lab").
		Link("graph-insights")

	return b.Definition()
}
