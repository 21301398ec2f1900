package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/navgen/pkg/errors"
	"github.com/matzehuels/navgen/pkg/model"
	"github.com/matzehuels/navgen/pkg/route"
)

// routeCommand creates the route command, which builds a concrete route of
// a destination from argument values, or decodes one with --match.
func (c *CLI) routeCommand() *cobra.Command {
	var (
		flags  runFlags
		values []string
		match  string
	)

	cmd := &cobra.Command{
		Use:   "route [feed] [destination]",
		Short: "Build or decode a concrete route of a destination",
		Long: `Route builds the concrete route a generated destination would navigate to.

The destination is named by its generated name, its composable, its route id
or its route pattern.
Argument values are given as name=value; structured values are JSON and "null"
is the null value of nullable arguments. Optional arguments left out keep their
defaults.

  navgen route feed.json Profile --arg id=42 --arg tab=POSTS
  navgen route feed.json Profile --match "profile/42?tab=POSTS"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.resolveForDisplay(cmd, args[0], &flags)
			if err != nil {
				return err
			}
			s := res.Screen(args[1])
			if s == nil && res.Root != nil {
				s = res.Root.FindDestination(args[1])
			}
			if s == nil {
				return errs.New(errs.ErrCodeInvalidRouteArguments, "no destination named %q", args[1])
			}

			if match != "" {
				decoded, err := route.Match(s, match)
				if err != nil {
					return err
				}
				printMatch(s, decoded)
				return nil
			}

			parsed, err := parseArgValues(s, values)
			if err != nil {
				return err
			}
			concrete, err := route.Build(s, parsed)
			if err != nil {
				return err
			}
			fmt.Println(concrete)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringArrayVarP(&values, "arg", "a", nil, "argument value as name=value; repeatable")
	cmd.Flags().StringVar(&match, "match", "", "decode this concrete route instead of building one")

	return cmd
}

// parseArgValues turns name=value pairs into typed argument values.
func parseArgValues(s *model.ResolvedScreen, pairs []string) (map[string]any, error) {
	codecs := make(map[string]route.ValueCodec)
	for _, vc := range route.Codecs(s) {
		codecs[vc.Name] = vc
	}

	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, text, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidRouteArguments, "argument %q: expected name=value", pair)
		}
		vc, ok := codecs[name]
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidRouteArguments, "%s has no argument %q", s.Name, name)
		}
		v, err := vc.Parse(text)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

func printMatch(s *model.ResolvedScreen, values map[string]any) {
	printKeyValue("Destination", s.Name)
	printKeyValue("Pattern", s.Route)

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v := values[name]
		if v == nil {
			printKeyValue(name, "null")
			continue
		}
		printKeyValue(name, fmt.Sprintf("%v", v))
	}
}
