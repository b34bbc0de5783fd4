package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"vibeboxing/internal/client"
	"vibeboxing/internal/combo"
	"vibeboxing/internal/model"
)

func (a *app) newCombosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "combos",
		Aliases: []string{"combo"},
		Short:   "Manage your combos",
	}
	cmd.AddCommand(
		a.newCombosListCmd(),
		a.newCombosShowCmd(),
		a.newCombosAddCmd(),
		a.newCombosEditCmd(),
		a.newCombosRmCmd(),
		a.newCombosStatsCmd(),
	)
	return cmd
}

func (a *app) newCombosListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your combos, most recently changed first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			// Signing in started loading the list.
			a.s.combos.Wait()
			if err := a.s.combos.Err(); err != nil {
				return err
			}
			combos := a.s.combos.Combos()
			if len(combos) == 0 {
				cmd.Println("No combos yet. Add one with 'vibeboxing combos add'.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tBASE\tGUARD\tSTEPS\tMOVES\tUPDATED")
			for _, c := range combos {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
					c.ID, c.Name, c.Stance, c.Guard, len(c.Steps), combo.CountMoves(c.Steps),
					c.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

func (a *app) newCombosShowCmd() *cobra.Command {
	var mirror bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the steps of a combo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			c, err := a.s.api.GetCombo(cmd.Context(), id)
			if err != nil {
				return err
			}
			stance, steps := c.Stance, c.Steps
			if mirror {
				stance = otherStance(stance)
				steps = combo.MirrorSteps(steps, combo.StanceSouthpaw)
			}
			printCombo(cmd.OutOrStdout(), c, stance, steps)
			return nil
		},
	}
	cmd.Flags().BoolVar(&mirror, "mirror", false, "show the combo as performed from the other stance")
	return cmd
}

func otherStance(s combo.Stance) combo.Stance {
	if s == combo.StanceSouthpaw {
		return combo.StanceOrthodox
	}
	return combo.StanceSouthpaw
}

func printCombo(w io.Writer, c *model.ComboView, stance combo.Stance, steps []combo.Step) {
	fmt.Fprintf(w, "%s (%s, %s)\n", c.Name, stance, c.Guard)
	for i, s := range steps {
		names := make([]string, len(s.Moves))
		for j, m := range s.Moves {
			names[j] = m.Name
		}
		fmt.Fprintf(w, "  %d. %s\n", i+1, strings.Join(names, " + "))
	}
}

type draftFlags struct {
	name   string
	stance string
	guard  string
	steps  []string
}

func (f *draftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "combo name")
	cmd.Flags().StringVar(&f.stance, "base", string(combo.StanceOrthodox), "stance: destro or canhoto")
	cmd.Flags().StringVar(&f.guard, "guard", "tradicional", "guard style")
	cmd.Flags().StringArrayVar(&f.steps, "step", nil, "comma separated moves of one step; repeat for each step")
}

// resolveSteps matches the move names of every --step against the catalog
// for stance, ignoring case.
func (a *app) resolveSteps(ctx context.Context, stance combo.Stance, raw []string) ([]combo.Step, error) {
	moves, err := a.s.api.Moves(ctx, stance, "")
	if err != nil {
		return nil, err
	}
	byName := make(map[string]combo.Move, len(moves))
	for _, m := range moves {
		byName[strings.ToLower(m.Name)] = m
	}

	steps := make([]combo.Step, 0, len(raw))
	for i, step := range raw {
		var s combo.Step
		for _, name := range strings.Split(step, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			m, ok := byName[strings.ToLower(name)]
			if !ok {
				return nil, fmt.Errorf("step %d: unknown move %q (see 'vibeboxing moves --base %s')", i+1, name, stance)
			}
			s.Moves = append(s.Moves, m)
		}
		steps = append(steps, s)
	}
	return steps, nil
}

func parseStance(raw string) (combo.Stance, error) {
	s := combo.Stance(strings.ToLower(raw))
	if !s.Valid() {
		return "", fmt.Errorf("invalid base %q: use destro or canhoto", raw)
	}
	return s, nil
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid combo id %q", raw)
	}
	return id, nil
}

func (a *app) newCombosAddCmd() *cobra.Command {
	var f draftFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a combo",
		Example: `  vibeboxing combos add --name "1-2 slip" --step "Jab D ↑" --step "Direto E ↑" --step "Slip E"
  vibeboxing combos add --name "Double jab" --base canhoto --step "jab e ↑, jab e ↓"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stance, err := parseStance(f.stance)
			if err != nil {
				return err
			}
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			steps, err := a.resolveSteps(cmd.Context(), stance, f.steps)
			if err != nil {
				return err
			}
			created, err := a.s.combos.Create(cmd.Context(), client.ComboDraft{
				Name: f.name, Stance: stance, Guard: f.guard, Steps: steps,
			})
			if err != nil {
				return err
			}
			cmd.Printf("Created combo %s.\n", created.ID)
			printCombo(cmd.OutOrStdout(), created, created.Stance, created.Steps)
			return nil
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("step")
	return cmd
}

func (a *app) newCombosEditCmd() *cobra.Command {
	var f draftFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a combo; omitted flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			current, err := a.s.api.GetCombo(cmd.Context(), id)
			if err != nil {
				return err
			}

			draft := client.ComboDraft{Name: current.Name, Stance: current.Stance, Guard: current.Guard, Steps: current.Steps}
			flags := cmd.Flags()
			if flags.Changed("name") {
				draft.Name = f.name
			}
			if flags.Changed("guard") {
				draft.Guard = f.guard
			}
			if flags.Changed("base") {
				if draft.Stance, err = parseStance(f.stance); err != nil {
					return err
				}
			}
			if flags.Changed("step") {
				if draft.Steps, err = a.resolveSteps(cmd.Context(), draft.Stance, f.steps); err != nil {
					return err
				}
			}

			updated, err := a.s.combos.Update(cmd.Context(), id, draft)
			if err != nil {
				return err
			}
			cmd.Printf("Updated combo %s.\n", updated.ID)
			printCombo(cmd.OutOrStdout(), updated, updated.Stance, updated.Steps)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func (a *app) newCombosRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a combo",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			if err := a.s.combos.Delete(cmd.Context(), id); err != nil {
				return err
			}
			cmd.Printf("Deleted combo %s.\n", id)
			return nil
		},
	}
}

func (a *app) newCombosStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize your collection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.requireUser(cmd.Context()); err != nil {
				return err
			}
			st, err := a.s.api.ComboStats(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("Combos:           %d\n", st.TotalCombos)
			cmd.Printf("Total moves:      %d\n", st.TotalMoves)
			cmd.Printf("Longest sequence: %d\n", st.LongestSequence)
			return nil
		},
	}
}

func (a *app) newMovesCmd() *cobra.Command {
	var stance, category string
	var guards bool
	cmd := &cobra.Command{
		Use:   "moves",
		Short: "List the move catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			if guards {
				gs, err := a.s.api.Guards(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "VALUE\tNAME")
				for _, g := range gs {
					fmt.Fprintf(w, "%s\t%s\n", g.Value, g.Name)
				}
				return w.Flush()
			}

			s, err := parseStance(stance)
			if err != nil {
				return err
			}
			moves, err := a.s.api.Moves(cmd.Context(), s, combo.Category(strings.ToUpper(category)))
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "CATEGORY\tMOVE")
			for _, m := range moves {
				fmt.Fprintf(w, "%s\t%s\n", m.Category, m.Name)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&stance, "base", string(combo.StanceOrthodox), "stance: destro or canhoto")
	cmd.Flags().StringVar(&category, "categoria", "", "only moves of this category (ATAQUE, ESQUIVA, BLOQUEIO, FOOTWORK, CLINCH)")
	cmd.Flags().BoolVar(&guards, "guards", false, "list guard styles instead of moves")
	return cmd
}
