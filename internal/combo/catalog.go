package combo

import "strings"

// Guard is a guard style offered when authoring a combo.
type Guard struct {
	Name  string `json:"nome"`
	Value string `json:"valor"`
}

// Guards lists the guard styles known to the catalog. Combos may still carry
// free-text guard labels.
var Guards = []Guard{
	{Name: "Guarda Tradicional", Value: "tradicional"},
	{Name: "Philly Shell", Value: "philly"},
	{Name: "Guarda Longa", Value: "longa"},
	{Name: "Guarda Baixa", Value: "baixa"},
	{Name: "Peek-a-boo", Value: "peekaboo"},
}

// catalog is written for the orthodox stance.
var catalog = []Move{
	{Name: "Jab D ↑", Category: CategoryAttack, Variant: "up"},
	{Name: "Jab D ↓", Category: CategoryAttack, Variant: "down"},
	{Name: "Jab E ↑", Category: CategoryAttack, Variant: "up"},
	{Name: "Jab E ↓", Category: CategoryAttack, Variant: "down"},
	{Name: "Direto D ↑", Category: CategoryAttack, Variant: "up"},
	{Name: "Direto D ↓", Category: CategoryAttack, Variant: "down"},
	{Name: "Direto E ↑", Category: CategoryAttack, Variant: "up"},
	{Name: "Direto E ↓", Category: CategoryAttack, Variant: "down"},
	{Name: "Cruzado D ↑", Category: CategoryAttack, Variant: "up"},
	{Name: "Cruzado D ↓", Category: CategoryAttack, Variant: "down"},
	{Name: "Cruzado E ↑", Category: CategoryAttack, Variant: "up"},
	{Name: "Cruzado E ↓", Category: CategoryAttack, Variant: "down"},
	{Name: "Upper D ↑", Category: CategoryAttack, Variant: "up"},
	{Name: "Upper D ↓", Category: CategoryAttack, Variant: "down"},
	{Name: "Upper E ↑", Category: CategoryAttack, Variant: "up"},
	{Name: "Upper E ↓", Category: CategoryAttack, Variant: "down"},
	{Name: "Overhand D", Category: CategoryAttack},
	{Name: "Overhand E", Category: CategoryAttack},

	{Name: "Slip E", Category: CategoryEvasion, Variant: "E"},
	{Name: "Slip D", Category: CategoryEvasion, Variant: "D"},
	{Name: "Pêndulo", Category: CategoryEvasion},
	{Name: "Pêndulo E", Category: CategoryEvasion, Variant: "E"},
	{Name: "Pêndulo D", Category: CategoryEvasion, Variant: "D"},
	{Name: "Pêndulo avança E", Category: CategoryEvasion, Variant: "E"},
	{Name: "Pêndulo avança D", Category: CategoryEvasion, Variant: "D"},
	{Name: "Step back", Category: CategoryEvasion},

	{Name: "Bloqueio alto E", Category: CategoryBlock, Variant: "E"},
	{Name: "Bloqueio alto D", Category: CategoryBlock, Variant: "D"},
	{Name: "Bloqueio baixo E", Category: CategoryBlock, Variant: "E"},
	{Name: "Bloqueio baixo D", Category: CategoryBlock, Variant: "D"},
	{Name: "Esgrima E", Category: CategoryBlock, Variant: "E"},
	{Name: "Esgrima D", Category: CategoryBlock, Variant: "D"},
	{Name: "Fechar guarda", Category: CategoryBlock},

	{Name: "Passo atrás", Category: CategoryFootwork},
	{Name: "Passo E", Category: CategoryFootwork, Variant: "E"},
	{Name: "Passo D", Category: CategoryFootwork, Variant: "D"},
	{Name: "Passo à frente", Category: CategoryFootwork},
	{Name: "Giro E", Category: CategoryFootwork, Variant: "E"},
	{Name: "Giro D", Category: CategoryFootwork, Variant: "D"},

	{Name: "Clinch (grappling)", Category: CategoryClinch},
}

// Mirror returns the move as performed from stance. Orthodox moves are
// returned unchanged; for southpaw the D/E side markers swap.
func Mirror(m Move, stance Stance) Move {
	if stance != StanceSouthpaw {
		return m
	}
	fields := strings.Fields(m.Name)
	for i, f := range fields {
		fields[i] = swapSide(f)
	}
	m.Name = strings.Join(fields, " ")
	m.Variant = swapSide(m.Variant)
	return m
}

// MirrorSteps applies Mirror to every move of every step.
func MirrorSteps(steps []Step, stance Stance) []Step {
	out := make([]Step, len(steps))
	for i, s := range steps {
		moves := make([]Move, len(s.Moves))
		for j, m := range s.Moves {
			moves[j] = Mirror(m, stance)
		}
		out[i] = Step{Moves: moves}
	}
	return out
}

func swapSide(token string) string {
	switch token {
	case "D":
		return "E"
	case "E":
		return "D"
	default:
		return token
	}
}

// Moves returns the catalog for stance, optionally restricted to one category.
// An empty category returns every move.
func Moves(stance Stance, category Category) []Move {
	out := make([]Move, 0, len(catalog))
	for _, m := range catalog {
		if category != "" && m.Category != category {
			continue
		}
		out = append(out, Mirror(m, stance))
	}
	return out
}
