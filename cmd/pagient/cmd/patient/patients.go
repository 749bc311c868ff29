package patient

import "github.com/spf13/cobra"

var PatientCmd = &cobra.Command{
	Use:   "patient",
	Short: "Inspect and page patients",
}

func init() {
	PatientCmd.AddCommand(ListCmd)
	PatientCmd.AddCommand(CallCmd)
	PatientCmd.AddCommand(AssignCmd)
}
