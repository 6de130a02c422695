package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/kiosk/pkg/commands/options"
	"tableflip.dev/kiosk/pkg/logging"
	"tableflip.dev/kiosk/pkg/remote"
	"tableflip.dev/kiosk/pkg/runner/admin"
)

type doer interface {
	Do(ctx context.Context) error
}

// runAdmin builds the admin client from the resolved config and runs the
// command returned by build.
func runAdmin(cmd *cobra.Command, io *options.IDOptions, build func(*admin.Admin) doer) error {
	cmd.SilenceUsage = true
	cfg, err := loadConfig(cmd)
	if err != nil {
		return oo.HandleError(err)
	}
	client, err := remote.New(cfg.Server(), remote.WithPassword(cfg.Password()))
	if err != nil {
		return oo.HandleError(err)
	}
	log, closer, err := logging.New(cfg.LogFile(), cfg.LogLevel())
	if err != nil {
		return oo.HandleError(err)
	}
	defer closer.Close()

	a := &admin.Admin{
		Store:  client,
		JSON:   oo.JSON,
		ShowID: io.ShowID,
		Out:    cmd.OutOrStdout(),
		Log:    log,
	}
	return oo.HandleError(build(a).Do(cmd.Context()))
}

func addAdmin(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage the store: configuration, folders and images.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newAdminConfigCmd(), newAdminFoldersCmd(), newAdminImagesCmd())
	topLevel.AddCommand(cmd)
}

func newAdminConfigCmd() *cobra.Command {
	io := &options.IDOptions{}
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read or replace the display configuration.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Print the configuration as JSON.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAdmin(cmd, io, func(a *admin.Admin) doer {
				return admin.ConfigGet{Admin: a}
			})
		},
	}

	set := &cobra.Command{
		Use:   "set <file>",
		Short: "Replace configuration sections from a JSON file, - for stdin.",
		Example: `
kiosk admin config get > config.json
kiosk admin config set config.json
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, io, func(a *admin.Admin) doer {
				return admin.ConfigSet{Admin: a, File: args[0], Stdin: cmd.InOrStdin()}
			})
		},
	}

	cmd.AddCommand(get, set)
	return cmd
}

func newAdminFoldersCmd() *cobra.Command {
	io := &options.IDOptions{}
	cmd := &cobra.Command{
		Use:     "folders",
		Aliases: []string{"folder"},
		Short:   "List, create and delete image folders.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List folders with their image counts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAdmin(cmd, io, func(a *admin.Admin) doer {
				return admin.FoldersList{Admin: a}
			})
		},
	}
	options.AddShowIDArgs(list, io)

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a folder.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, io, func(a *admin.Admin) doer {
				return admin.FolderCreate{Admin: a, Name: args[0]}
			})
		},
	}

	del := &cobra.Command{
		Use:               "delete <id>",
		Short:             "Delete a folder and all of its images.",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: folderCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, io, func(a *admin.Admin) doer {
				return admin.FolderDelete{Admin: a, ID: args[0]}
			})
		},
	}

	cmd.AddCommand(list, create, del)
	return cmd
}

func newAdminImagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "images",
		Aliases: []string{"image"},
		Short:   "List, upload and delete images of a folder.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	listIO := &options.IDOptions{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List the images of a folder.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAdmin(cmd, listIO, func(a *admin.Admin) doer {
				return admin.ImagesList{Admin: a, Folder: listIO.Folder}
			})
		},
	}
	options.AddFolderArgs(list, listIO)
	options.AddShowIDArgs(list, listIO)

	uploadIO := &options.IDOptions{}
	upload := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload image files into a folder.",
		Example: `
kiosk admin images upload --folder 3f2a ausflug/*.jpg
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, uploadIO, func(a *admin.Admin) doer {
				return admin.ImagesUpload{Admin: a, Folder: uploadIO.Folder, Files: args}
			})
		},
	}
	options.AddFolderArgs(upload, uploadIO)

	delIO := &options.IDOptions{}
	del := &cobra.Command{
		Use:   "delete <image-id>",
		Short: "Delete one image.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd, delIO, func(a *admin.Admin) doer {
				return admin.ImageDelete{Admin: a, Folder: delIO.Folder, ID: args[0]}
			})
		},
	}
	options.AddFolderArgs(del, delIO)

	cmd.AddCommand(list, upload, del)
	return cmd
}
