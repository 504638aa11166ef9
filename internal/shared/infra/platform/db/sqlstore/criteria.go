package sqlstore

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/davicafu/agrofarm/internal/shared/domain"
)

// Admite columnas cualificadas por alias (p.name_key).
var columnName = regexp.MustCompile(`^([a-z_][a-z0-9_]*\.)?[a-z_][a-z0-9_]*$`)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// BuildWhere traduce criterios neutrales a una cláusula WHERE con '?'.
// Devuelve "" si no hay condiciones.
func BuildWhere(c domain.Criteria) (string, []any, error) {
	if c == nil {
		return "", nil, nil
	}
	conds := c.ToConditions()
	if len(conds) == 0 {
		return "", nil, nil
	}
	clause, args, err := join(conds, " AND ")
	if err != nil {
		return "", nil, err
	}
	return "WHERE " + clause, args, nil
}

func join(conds []domain.Criterion, sep string) (string, []any, error) {
	parts := make([]string, 0, len(conds))
	args := make([]any, 0, len(conds))
	for _, cond := range conds {
		part, condArgs, err := condition(cond)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, part)
		args = append(args, condArgs...)
	}
	return strings.Join(parts, sep), args, nil
}

func condition(cond domain.Criterion) (string, []any, error) {
	if cond.Op == domain.OpAny {
		group, ok := cond.Value.([]domain.Criterion)
		if !ok || len(group) == 0 {
			return "", nil, fmt.Errorf("invalid %s group", cond.Op)
		}
		clause, args, err := join(group, " OR ")
		if err != nil {
			return "", nil, err
		}
		return "(" + clause + ")", args, nil
	}

	if !columnName.MatchString(cond.Field) {
		return "", nil, fmt.Errorf("invalid criteria field %q", cond.Field)
	}
	switch cond.Op {
	case domain.OpEq, domain.OpNeq, domain.OpGt, domain.OpGte, domain.OpLt, domain.OpLte:
		return fmt.Sprintf("%s %s ?", cond.Field, cond.Op), []any{cond.Value}, nil
	case domain.OpContains:
		text, ok := cond.Value.(string)
		if !ok {
			return "", nil, fmt.Errorf("%s on %q needs a string", cond.Op, cond.Field)
		}
		pattern := "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(text))) + "%"
		return fmt.Sprintf(`%s LIKE ? ESCAPE '\'`, cond.Field), []any{pattern}, nil
	default:
		return "", nil, fmt.Errorf("unsupported operator %q", cond.Op)
	}
}
