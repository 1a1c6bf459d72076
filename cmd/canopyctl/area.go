package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dalemusser/canopyhub/internal/surveyclient"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	assumeYes bool
	areaName  string
)

var areaCmd = &cobra.Command{
	Use:   "area",
	Short: "Move between and add areas of a survey collection",
}

var areaNextCmd = &cobra.Command{
	Use:   "next <file>",
	Short: "Save the area in file, then replace file with the next area",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return moveArea(cmd, args[0], +1) },
}

var areaPrevCmd = &cobra.Command{
	Use:   "prev <file>",
	Short: "Save the area in file, then replace file with the previous area",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return moveArea(cmd, args[0], -1) },
}

var areaAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Save the area in file and create the next area of its collection",
	Long: `Add saves the survey in the state file and asks the server for a new area.
The first extra area of a standalone survey creates its collection. The file
is replaced with the new area.`,
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
		res, saved, err := c.AddArea(cmd.Context(), surveyclient.NewState(sv), areaName, nil)
		if err != nil {
			return err
		}
		if !saved.Success {
			return fmt.Errorf("save rejected with status %d: %s", saved.Status, saved.Body)
		}
		for _, w := range saved.Warnings {
			fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", w)
		}
		if err := writeSurvey(args[0], res.Survey); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", res.Survey.RefID)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{areaNextCmd, areaPrevCmd} {
		c.Flags().BoolVarP(&assumeYes, "yes", "y", false, "leave the area even when its save fails")
	}
	areaAddCmd.Flags().StringVar(&areaName, "name", "", "name of the new area")
	areaCmd.AddCommand(areaNextCmd, areaPrevCmd, areaAddCmd)
}

func moveArea(cmd *cobra.Command, file string, step int) error {
	sv, err := readSurvey(file)
	if err != nil {
		return err
	}
	if sv.ID == primitive.NilObjectID {
		return surveyclient.ErrNoID
	}
	c, err := newClient()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	confirm := promptConfirm(cmd.InOrStdin(), cmd.OutOrStdout())

	_, nav, err := c.Open(ctx, sv.ID, confirm)
	if err != nil {
		return err
	}
	if nav == nil {
		return errors.New("survey is not part of a collection")
	}

	next, err := nav.Goto(ctx, surveyclient.NewState(sv), nav.Current()+step)
	if err != nil {
		return err
	}
	if err := writeSurvey(file, next.Survey()); err != nil {
		return err
	}
	a := nav.Areas()[nav.Current()]
	fmt.Fprintf(cmd.OutOrStdout(), "area %d of %d: %s\n", nav.Current()+1, len(nav.Areas()), a.RefID)
	return nil
}

// promptConfirm asks on in whether to leave after a failed save.
func promptConfirm(in io.Reader, out io.Writer) surveyclient.ConfirmFunc {
	return func(_ context.Context, res surveyclient.Result, err error) bool {
		if assumeYes {
			return true
		}
		if err != nil {
			fmt.Fprintf(out, "Save failed: %v\n", err)
		} else {
			fmt.Fprintf(out, "Save failed with status %d.\n", res.Status)
		}
		fmt.Fprint(out, "Leave this area and lose unsaved changes? [y/N] ")
		line, _ := bufio.NewReader(in).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	}
}
