package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wildstyl3r/tipem/internal/config"
	"github.com/wildstyl3r/tipem/internal/model"
	"github.com/wildstyl3r/tipem/internal/spheroid"
)

func newGeometryCmd() *cobra.Command {
	var identifier string
	var distanceToTop, maxPatchArea float64
	var units []string

	cmd := &cobra.Command{
		Use:   "geometry",
		Short: "Describe the spheroid encoded in an identifier",
		RunE: func(cmd *cobra.Command, args []string) error {
			inputUnits, err := config.ResolveUnits(units)
			if err != nil {
				return err
			}
			geometry, err := config.ParseIdentifier(identifier)
			if err != nil {
				return err
			}
			s, err := spheroid.NewSpheroid(geometry.TipRadius, geometry.ShaftLength)
			if err != nil {
				return err
			}
			a, b := s.SemiAxes()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tip radius      %g m\n", s.TipRadius())
			fmt.Fprintf(out, "length          %g m\n", s.Length())
			fmt.Fprintf(out, "semi-axes       %g m, %g m\n", a, b)
			fmt.Fprintf(out, "focal distance  %g m\n", s.FocalDistance())
			fmt.Fprintf(out, "xi0             %.10g\n", s.SurfaceXi())
			fmt.Fprintf(out, "enhancement     %.6g\n", s.FieldEnhancement())
			if distanceToTop > 0 && maxPatchArea > 0 {
				depth := config.SI(distanceToTop, []config.UnitElement{{Class: config.Length, Power: 1}}, inputUnits, true)
				area := config.SI(maxPatchArea, []config.UnitElement{{Class: config.Length, Power: 2}}, inputUnits, true)
				etaMin := model.EtaMin(s, depth)
				surface, err := s.SubdivideSurface(etaMin, area)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "eta_min         %.10g\n", etaMin)
				fmt.Fprintf(out, "patches         %d\n", surface.Len())
				fmt.Fprintf(out, "cap area        %g m^2\n", s.CapArea(etaMin))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&identifier, "identifier", "i", "", "directory name encoding R=<nm>nm and _L=<um>um")
	cmd.Flags().Float64Var(&distanceToTop, "depth", 0, "distance below the apex to discretize, in the input length unit")
	cmd.Flags().Float64Var(&maxPatchArea, "patch", 0, "maximal patch area, in the input length unit squared")
	cmd.Flags().StringSliceVar(&units, "units", nil, "input units, defaults to nm")
	_ = cmd.MarkFlagRequired("identifier")
	return cmd
}
