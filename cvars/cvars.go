// SPDX-License-Identifier: GPL-2.0-or-later

package cvars

import (
	"strings"

	"quakemodel/conlog"
	"quakemodel/cvar"
)

var (
	Developer        *cvar.Cvar
	ExternalEnts     *cvar.Cvar
	ExternalVis      *cvar.Cvar
	RFlatLightStyles *cvar.Cvar
	RFullBrightList  *cvar.Cvar
	RLerpModels      *cvar.Cvar
	RNoLerpList      *cvar.Cvar
	RNoVis           *cvar.Cvar
	ROldSkyLeaf      *cvar.Cvar
)

func init() {
	Developer = cvar.MustRegister("developer", "0", cvar.NONE)
	Developer.SetCallback(func(cv *cvar.Cvar) {
		conlog.SetDeveloper(int(cv.Value()))
	})
	ExternalEnts = cvar.MustRegister("external_ents", "1", cvar.ARCHIVE)
	ExternalVis = cvar.MustRegister("external_vis", "1", cvar.ARCHIVE)
	RFlatLightStyles = cvar.MustRegister("r_flatlightstyles", "0", cvar.NONE)
	RLerpModels = cvar.MustRegister("r_lerpmodels", "1", cvar.NONE)
	RNoVis = cvar.MustRegister("r_novis", "0", cvar.ARCHIVE)
	ROldSkyLeaf = cvar.MustRegister("r_oldskyleaf", "0", cvar.NONE)

	RNoLerpList = cvar.MustRegister("r_nolerp_list", strings.Join([]string{
		"progs/flame.mdl",
		"progs/flame2.mdl",
		"progs/braztall.mdl",
		"progs/brazshrt.mdl",
		"progs/longtrch.mdl",
		"progs/flame_pyre.mdl",
		"progs/v_saw.mdl",
		"progs/v_xfist.mdl",
		"progs/h2stuff/newfire.mdl",
	}, ","), cvar.NONE)

	RFullBrightList = cvar.MustRegister("r_fullbright_list", strings.Join([]string{
		"progs/flame2.mdl",
		"progs/flame.mdl",
		"progs/boss.mdl",
	}, ","), cvar.NONE)
}

// InList reports whether name is one of the comma separated entries of cv.
func InList(cv *cvar.Cvar, name string) bool {
	for _, e := range strings.Split(cv.String(), ",") {
		if strings.TrimSpace(e) == name && name != "" {
			return true
		}
	}
	return false
}
