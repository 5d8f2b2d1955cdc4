package ports

// CostingMetrics puerto de métricas del motor de costeo (Prometheus en producción).
type CostingMetrics interface {
	ProductRecalculated(trigger string)
	IngredientPropagated(affectedProducts int)
}

// Disparadores de recálculo.
const (
	TriggerIngredientCost = "ingredient_cost"
	TriggerManual         = "manual"
)

// NopCostingMetrics implementación vacía para tests o cuando las métricas están deshabilitadas.
type NopCostingMetrics struct{}

func (NopCostingMetrics) ProductRecalculated(string) {}
func (NopCostingMetrics) IngredientPropagated(int)   {}
