// SPDX-License-Identifier: MIT

package status_test

import (
	"testing"

	"github.com/katalvlaran/lvsdp/sdp"
	"github.com/katalvlaran/lvsdp/status"
	"github.com/stretchr/testify/require"
)

func TestNormalizePrimalForm(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   status.NativeStatus
		want sdp.Termination
	}{
		{status.Code(0), sdp.Optimal},
		{status.Code(1), sdp.PrimalInfeasible},
		{status.Code(2), sdp.DualInfeasible},
		{status.Code(3), sdp.BothInfeasible},
		{status.Code(4), sdp.Indeterminate},
		{status.Code(-1), sdp.Indeterminate},
		{status.None(), sdp.Indeterminate},
		{status.Phase("0"), sdp.Indeterminate},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, status.Normalize(tc.in, sdp.FamilyPrimal), tc.in.String())
	}
}

func TestNormalizeDualForm(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   status.NativeStatus
		want sdp.Termination
	}{
		{status.Phase("pdOPT"), sdp.Optimal},
		{status.Phase("pdINF"), sdp.BothInfeasible},
		{status.Phase("pFEAS_dINF"), sdp.PrimalInfeasible},
		{status.Phase("pINF_dFEAS"), sdp.DualInfeasible},
		{status.Phase("pUNBD"), sdp.PrimalInfeasible},
		{status.Phase("dUNBD"), sdp.DualInfeasible},
		{status.Phase("pdFEAS"), sdp.Indeterminate},
		{status.Phase("noINFO"), sdp.Indeterminate},
		{status.Phase("pdopt"), sdp.Indeterminate},
		{status.Phase(""), sdp.Indeterminate},
		{status.Code(0), sdp.Indeterminate},
		{status.None(), sdp.Indeterminate},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, status.Normalize(tc.in, sdp.FamilyDual), tc.in.String())
	}
}

// TestNormalizeIsTotal sweeps a grid of codes and strings over every family,
// including an unknown one, and checks the output stays in the closed set.
func TestNormalizeIsTotal(t *testing.T) {
	t.Parallel()
	families := []sdp.Family{sdp.FamilyPrimal, sdp.FamilyDual, "unknown"}
	var natives []status.NativeStatus
	for c := -50; c <= 50; c++ {
		natives = append(natives, status.Code(c))
	}
	for _, p := range []string{"", "pdOPT", "pdINF", "pFEAS", "dFEAS", "pdFEAS", "noINFO", "pUNBD", "dUNBD", "x", "PDOPT", "pFEAS_dINF ", "🙂"} {
		natives = append(natives, status.Phase(p))
	}
	natives = append(natives, status.None())

	for _, fam := range families {
		for _, n := range natives {
			got := status.Normalize(n, fam)
			require.True(t, got.Valid(), "%s/%s -> %d", fam, n, got)
			if fam == "unknown" {
				require.Equal(t, sdp.Indeterminate, got)
			}
		}
	}
}

func TestTableIsACopy(t *testing.T) {
	t.Parallel()
	tbl := status.Table(sdp.FamilyDual)
	require.Len(t, tbl, 6)
	tbl["pdOPT"] = sdp.Indeterminate
	require.Equal(t, sdp.Optimal, status.Normalize(status.Phase("pdOPT"), sdp.FamilyDual))

	require.Equal(t, map[string]sdp.Termination{
		"0": sdp.Optimal, "1": sdp.PrimalInfeasible, "2": sdp.DualInfeasible, "3": sdp.BothInfeasible,
	}, status.Table(sdp.FamilyPrimal))
	require.Empty(t, status.Table("nope"))
}

func TestNativeStatusString(t *testing.T) {
	t.Parallel()
	require.Equal(t, "-3", status.Code(-3).String())
	require.Equal(t, "pdOPT", status.Phase("pdOPT").String())
	require.Equal(t, "none", status.None().String())
}
