package options

import (
	"github.com/spf13/cobra"
)

// IDOptions
type IDOptions struct {
	ShowID bool
	Folder string
}

func AddShowIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().BoolVarP(&o.ShowID, "show-id", "k", false,
		"Show the ID of each folder or image.")
}

func AddFolderArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().StringVarP(&o.Folder, "folder", "f", "",
		"Folder id the images belong to.")
	_ = cmd.MarkFlagRequired("folder")
}
