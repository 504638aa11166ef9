package domain

// ---------------- Operadores ----------------

type Operator string

const (
	OpEq  Operator = "="
	OpNeq Operator = "<>"
	OpGt  Operator = ">"
	OpGte Operator = ">="
	OpLt  Operator = "<"
	OpLte Operator = "<="
	// OpContains busca una subcadena en una columna ya plegada a minúsculas.
	OpContains Operator = "CONTAINS"
	// OpAny agrupa con OR los []Criterion de Value.
	OpAny Operator = "ANY"
)

// ---------------- Criterion ----------------

// Criterion describe una condición neutral de filtrado
type Criterion struct {
	Field string
	Op    Operator
	Value interface{}
}

// ---------------- Criteria interface ----------------

// Criteria permite transformar filtros a condiciones neutrales
type Criteria interface {
	ToConditions() []Criterion
}

// ---------------- Composite Criteria ----------------

// AllOf combina criterios con AND.
type AllOf []Criteria

func (c AllOf) ToConditions() []Criterion {
	var all []Criterion
	for _, crit := range c {
		if crit == nil {
			continue
		}
		all = append(all, crit.ToConditions()...)
	}
	return all
}

// And crea un AllOf
func And(criterias ...Criteria) AllOf {
	return AllOf(criterias)
}

// AnyOf combina criterios con OR en una sola condición.
type AnyOf []Criteria

func (c AnyOf) ToConditions() []Criterion {
	conds := AllOf(c).ToConditions()
	if len(conds) == 0 {
		return nil
	}
	return []Criterion{{Op: OpAny, Value: conds}}
}

// Or crea un AnyOf
func Or(criterias ...Criteria) AnyOf {
	return AnyOf(criterias)
}
