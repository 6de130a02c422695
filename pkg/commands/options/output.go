package options

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/kiosk/pkg/remote"
)

// OutputOptions
type OutputOptions struct {
	JSON bool

	// Out receives JSON errors; color.Output when nil.
	Out io.Writer
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.PersistentFlags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

// HandleError prints err as {"error": ...} when JSON output was requested
// and swallows it, so scripts always get a JSON document.
func (o *OutputOptions) HandleError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, remote.ErrUnauthorized) {
		err = fmt.Errorf("%w (set --password or KIOSK_PASSWORD)", err)
	}
	if !o.JSON {
		return err
	}
	out := map[string]interface{}{
		"error": err.Error(),
	}
	var se *remote.StatusError
	if errors.As(err, &se) {
		out["status"] = se.Code
	}
	b, err := json.Marshal(out)
	if err != nil {
		return err
	}
	w := o.Out
	if w == nil {
		w = color.Output
	}
	_, _ = fmt.Fprintln(w, string(b))
	return nil
}
