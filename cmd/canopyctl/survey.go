package main

import (
	"fmt"

	"github.com/dalemusser/canopyhub/internal/surveyclient"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var surveyCmd = &cobra.Command{
	Use:   "survey",
	Short: "Fetch, save and version kitchen surveys",
}

var surveyGetCmd = &cobra.Command{
	Use:   "get <survey-id> <file>",
	Short: "Write a survey to a state file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		sv, err := c.Survey(cmd.Context(), id)
		if err != nil {
			return err
		}
		if err := writeSurvey(args[1], sv); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", args[1], sv.RefID)
		return nil
	},
}

var surveySaveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Save a survey state file and check the stored copy",
	Long: `Save PUTs the survey in the state file, reads it back and reports any
count that came back lower than what was sent. Mismatches are warnings; only
a rejected PUT makes the command fail. The file is rewritten with the stored
survey.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sv, err := readSurvey(args[0])
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		st := surveyclient.NewState(sv)
		res, err := c.Save(cmd.Context(), st)
		if err != nil {
			return err
		}
		return reportSave(cmd, args[0], st, res)
	},
}

var surveyVersionCmd = &cobra.Command{
	Use:   "version <survey-id>",
	Short: "Store a survey as its next version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		sv, err := c.NewVersion(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", sv.ID.Hex(), sv.RefID)
		return nil
	},
}

var combineName string

var surveyCombineCmd = &cobra.Command{
	Use:   "combine <survey-id>...",
	Short: "Copy surveys into a new collection, in the order given",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]primitive.ObjectID, 0, len(args))
		for _, a := range args {
			id, err := parseID(a)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		res, err := c.Combine(cmd.Context(), ids, combineName)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "collection %s %s\n", res.Collection.ID.Hex(), res.Collection.CollectionRef)
		for _, sv := range res.Surveys {
			fmt.Fprintf(out, "  %s %s\n", sv.ID.Hex(), sv.RefID)
		}
		return nil
	},
}

var surveyCheckRefCmd = &cobra.Command{
	Use:   "checkref <ref>",
	Short: "Report whether a REF identifier is taken",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		taken, err := c.CheckRef(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if taken {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is taken\n", args[0])
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is free\n", args[0])
		}
		return nil
	},
}

func init() {
	surveyCombineCmd.Flags().StringVar(&combineName, "name", "", "name of the new collection")
	surveyCmd.AddCommand(surveyGetCmd, surveySaveCmd, surveyVersionCmd, surveyCombineCmd, surveyCheckRefCmd)
}

func parseID(s string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return id, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// reportSave prints a save result and rewrites file with the stored survey.
func reportSave(cmd *cobra.Command, file string, st *surveyclient.State, res surveyclient.Result) error {
	if !res.Success {
		return fmt.Errorf("save rejected with status %d: %s", res.Status, res.Body)
	}
	out := cmd.OutOrStdout()
	for _, w := range res.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	if err := writeSurvey(file, st.Survey()); err != nil {
		return err
	}
	fmt.Fprintf(out, "saved %s\n", res.Survey.RefID)
	return nil
}
