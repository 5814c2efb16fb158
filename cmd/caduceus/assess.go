package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linnemanlabs/caduceus/internal/triage"
)

func newAssessCmd(a *app) *cobra.Command {
	var (
		req    triage.AdmitRequest
		gender string
		dryRun bool
		temp   float64
		ints   = map[string]*int{}
	)

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Score a patient intake and add it to the waiting queue",
		Example: `  caduceus assess --symptoms "chest pain radiating to left arm" --age 67
  caduceus assess --symptoms "shortness of breath" --age 80 --spo2 88 --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.Gender = triage.ParseGender(strings.ToLower(gender))
			req.Vitals = vitalsFromFlags(cmd, temp, ints)

			if dryRun {
				scorer := triage.NewScorer(triage.DefaultCatalog(), processRand{})
				return a.printAssessment(cmd.OutOrStdout(), scorer.Assess(req.Request))
			}

			svc, done, err := a.openService()
			if err != nil {
				return err
			}
			defer done()

			rec, err := svc.Admit(cmd.Context(), req)
			if err != nil {
				return err
			}
			if a.format == "json" {
				return a.writeJSON(cmd.OutOrStdout(), rec)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Record %s\n", rec.ID)
			return a.printAssessment(cmd.OutOrStdout(), rec.Assessment)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&req.Symptoms, "symptoms", "s", "", "Symptom description (required)")
	f.IntVarP(&req.Age, "age", "a", 0, "Patient age in years")
	f.StringVarP(&gender, "gender", "g", "unknown", "male, female, other or unknown")
	f.StringVarP(&req.PatientName, "name", "n", "", "Patient name, stored in local history only")
	f.BoolVar(&dryRun, "dry-run", false, "Score without adding to the queue")
	f.Float64Var(&temp, "temp", 0, "Body temperature in °C")
	for _, v := range []struct{ name, usage string }{
		{"hr", "Heart rate in beats per minute"},
		{"bp-sys", "Systolic blood pressure in mmHg"},
		{"bp-dia", "Diastolic blood pressure in mmHg"},
		{"spo2", "Oxygen saturation in percent"},
		{"rr", "Respiratory rate in breaths per minute"},
	} {
		ints[v.name] = f.Int(v.name, 0, v.usage)
	}
	_ = cmd.MarkFlagRequired("symptoms")

	return cmd
}

// vitalsFromFlags sets only the measurements given on the command line; an
// unset flag is an untaken measurement, not a zero.
func vitalsFromFlags(cmd *cobra.Command, temp float64, ints map[string]*int) *triage.VitalSigns {
	var v triage.VitalSigns
	given := false
	set := func(name string, dst **int) {
		if cmd.Flags().Changed(name) {
			n := *ints[name]
			*dst = &n
			given = true
		}
	}
	if cmd.Flags().Changed("temp") {
		t := temp
		v.Temperature = &t
		given = true
	}
	set("hr", &v.HeartRate)
	set("bp-sys", &v.BloodPressureSystolic)
	set("bp-dia", &v.BloodPressureDiastolic)
	set("spo2", &v.OxygenSaturation)
	set("rr", &v.RespiratoryRate)
	if !given {
		return nil
	}
	return &v
}

func (a *app) printAssessment(w io.Writer, as triage.Assessment) error {
	if a.format == "json" {
		return a.writeJSON(w, as)
	}
	fmt.Fprintf(w, "Priority:   %d/10 %s (%s)\n", as.PriorityScore, strings.ToUpper(string(as.PriorityLevel)), as.PriorityColor)
	fmt.Fprintf(w, "Department: %s\n", as.RecommendedDepartment)
	fmt.Fprintf(w, "Wait:       ~%d min\n", as.EstimatedWaitMinutes)
	fmt.Fprintf(w, "Confidence: %d%%\n", as.ConfidencePercent)
	for _, r := range as.Reasoning {
		fmt.Fprintf(w, "  - %s\n", r)
	}
	for _, al := range as.Alerts {
		fmt.Fprintf(w, "  ! %s\n", al)
	}
	return nil
}
