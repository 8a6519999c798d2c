// SPDX-License-Identifier: GPL-2.0-or-later

package mdl

import (
	"quakemodel/conlog"
	"quakemodel/cvars"
	"quakemodel/math"
	"quakemodel/model"
)

// Lerp flags of an entity.
const (
	LerpMoveStep   = 1 << iota // 1
	LerpResetAnim              // 2 kill any lerp in progress
	LerpResetAnim2             // 4 defer lerping one more frame
	LerpResetMove              // 8
	LerpFinish                 // 16 use Finish instead of the frame interval
)

// defaultLerpTime is the lerp duration of single pose frames.
const defaultLerpTime = 0.1

// LerpState is the per entity animation state.
type LerpState struct {
	Flags        int
	Start        float64
	Time         float64
	Finish       float64
	PreviousPose int
	CurrentPose  int
}

// LerpData says which two poses to blend.
type LerpData struct {
	Pose1 int
	Pose2 int
	Blend float32
}

// SetupFrame picks the pose of frame at time and advances the
// interpolation of the entity s.
func (m *Model) SetupFrame(s *LerpState, frame int, time float64) LerpData {
	if frame < 0 || frame >= len(m.Frames) {
		conlog.DPrintf("R_AliasSetupFrame: no such frame %d for '%s'\n", frame, m.name)
		frame = 0
	}
	f := &m.Frames[frame]
	pose := f.FirstPose
	if f.NumPoses > 1 {
		s.Time = float64(f.Interval)
		if s.Time <= 0 {
			s.Time = defaultLerpTime
		}
		pose += int(time/s.Time) % f.NumPoses
	} else {
		s.Time = defaultLerpTime
	}

	switch {
	case s.Flags&LerpResetAnim != 0:
		s.Start = 0
		s.PreviousPose = pose
		s.CurrentPose = pose
		s.Flags &^= LerpResetAnim
	case s.CurrentPose != pose && s.Flags&LerpResetAnim2 != 0:
		s.Start = 0
		s.PreviousPose = pose
		s.CurrentPose = pose
		s.Flags &^= LerpResetAnim2
	case s.CurrentPose != pose:
		s.Start = time
		s.PreviousPose = s.CurrentPose
		s.CurrentPose = pose
	}

	lerp := cvars.RLerpModels.Value()
	if lerp == 0 || (m.flags&model.ModNoLerp != 0 && lerp != 2) {
		return LerpData{Pose1: pose, Pose2: pose, Blend: 1}
	}

	var blend float64
	if s.Flags&LerpFinish != 0 && f.NumPoses == 1 {
		if d := s.Finish - s.Start; d > 0 {
			blend = (time - s.Start) / d
		} else {
			blend = 1
		}
	} else {
		blend = (time - s.Start) / s.Time
	}
	blend = math.Clamp(0, blend, 1)

	if s.CurrentPose < 0 || s.CurrentPose >= len(m.Poses) {
		conlog.DPrintf("R_AliasSetupFrame: invalid current pose %d (%d total) for '%s'\n", s.CurrentPose, len(m.Poses), m.name)
		s.CurrentPose = 0
	}
	if s.PreviousPose < 0 || s.PreviousPose >= len(m.Poses) {
		conlog.DPrintf("R_AliasSetupFrame: invalid prev pose %d (%d total) for '%s'\n", s.PreviousPose, len(m.Poses), m.name)
		s.PreviousPose = s.CurrentPose
	}
	return LerpData{
		Pose1: s.PreviousPose,
		Pose2: s.CurrentPose,
		Blend: float32(blend),
	}
}
