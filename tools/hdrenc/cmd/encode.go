package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zostay/go-hdrenc/header"
	"github.com/zostay/go-hdrenc/header/param"
)

func newEncodeCmd(a *app) *cobra.Command {
	var params []string

	encodeCmd := &cobra.Command{
		Use:   "encode <name> [value...]",
		Short: "encode one header, giving several values to encode a list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ps, err := parseParams(params)
			if err != nil {
				return err
			}

			name := args[0]
			s, err := a.encoder.ToMIME(name, buildValue(args[1:], ps))
			if err != nil {
				return fmt.Errorf("failed to encode %s: %w", name, err)
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), name+": "+s+a.lb.String())
			return err
		},
	}

	encodeCmd.Flags().StringArrayVarP(&params, "param", "p", nil,
		"add a name=value parameter to each value, may be repeated")

	return encodeCmd
}

// parseParams turns name=value flags into a parameter list, in order.
func parseParams(flags []string) (param.List, error) {
	if len(flags) == 0 {
		return nil, nil
	}

	ps := make(param.List, 0, len(flags))
	for _, f := range flags {
		n, v, ok := strings.Cut(f, "=")
		if !ok || n == "" {
			return nil, fmt.Errorf("parameter %q is not of the form name=value", f)
		}
		ps = append(ps, param.Param{Name: n, Value: v})
	}

	return ps, nil
}

// buildValue makes a header.Value out of the value arguments.
func buildValue(vs []string, ps param.List) header.Value {
	mk := func(v string) header.Value {
		if len(ps) > 0 {
			return header.Parametrized{Value: v, Params: ps}
		}
		return header.Plain(v)
	}

	switch len(vs) {
	case 0:
		return nil
	case 1:
		return mk(vs[0])
	}

	m := make(header.Multi, len(vs))
	for i, v := range vs {
		m[i] = mk(v)
	}
	return m
}
