package sequence_test

import (
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/agbru/splashseq/internal/clock"
	"github.com/agbru/splashseq/internal/sequence"
	"github.com/agbru/splashseq/internal/sequence/mocks"
)

func TestController_ObserverSeesNoWritesAfterDeactivate(t *testing.T) {
	t.Parallel()
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	obs := mocks.NewMockObserver(mockCtrl)
	var lastVersion uint64
	// 200ms: phase + overlay, 700ms: steady, 3700ms: gathering.
	obs.EXPECT().OnStateChange(gomock.Any(), gomock.Any()).Times(4).Do(func(prev, next sequence.State) {
		if next.Version <= lastVersion {
			t.Errorf("version went from %d to %d", lastVersion, next.Version)
		}
		lastVersion = next.Version
	})

	v := clock.NewVirtual(time.Unix(0, 0))
	ctrl := sequence.NewController(sequence.DefaultTimings().Config(3),
		sequence.WithClock(v), sequence.WithObserver(obs))
	ctrl.Activate()
	v.Advance(4 * time.Second)

	ctrl.Deactivate()
	v.Advance(time.Hour)
	ctrl.OnRotationCycleComplete()
}

func TestController_ObserverOrder(t *testing.T) {
	t.Parallel()
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	obs := mocks.NewMockObserver(mockCtrl)
	isPhase := func(p sequence.Phase) gomock.Matcher {
		return phaseMatcher(p)
	}
	gomock.InOrder(
		obs.EXPECT().OnStateChange(gomock.Any(), isPhase(sequence.PhaseIconsEntering)),
		obs.EXPECT().OnStateChange(gomock.Any(), isPhase(sequence.PhaseIconsEntering)),
		obs.EXPECT().OnStateChange(gomock.Any(), isPhase(sequence.PhaseIconsSteady)),
	)

	v := clock.NewVirtual(time.Unix(0, 0))
	ctrl := sequence.NewController(sequence.DefaultTimings().Config(3),
		sequence.WithClock(v), sequence.WithObserver(obs))
	ctrl.Activate()
	v.Advance(time.Second)
	ctrl.Deactivate()
}

type phaseMatcher sequence.Phase

func (m phaseMatcher) Matches(x interface{}) bool {
	s, ok := x.(sequence.State)
	return ok && s.Phase == sequence.Phase(m)
}

func (m phaseMatcher) String() string {
	return "state in phase " + sequence.Phase(m).String()
}
