package window

import (
	"github.com/featchain/featchain/container"
	"github.com/featchain/featchain/meta"
)

// Select keeps only the frames covered by the given events in every
// container of the repository. Event onsets are floored and offsets ceiled
// when converted to frames. Containers are modified in place.
func Select(repo *container.Repository, events meta.Records) error {
	return applyEvents(repo, events, true)
}

// Mask removes the frames covered by the given events in every container of
// the repository. Containers are modified in place.
func Mask(repo *container.Repository, events meta.Records) error {
	return applyEvents(repo, events, false)
}

func applyEvents(repo *container.Repository, events meta.Records, keep bool) error {
	for _, label := range repo.Labels() {
		for _, stream := range repo.StreamIDs(label) {
			m, err := repo.GetStream(label, stream)
			if err != nil {
				return err
			}
			covered := make([]bool, m.Length())
			for _, event := range events {
				onset, err := m.TimeToFrame(event.Onset, container.RoundFloor)
				if err != nil {
					return err
				}
				offset, err := m.TimeToFrame(event.Offset, container.RoundCeil)
				if err != nil {
					return err
				}
				for i := onset; i < offset; i++ {
					covered[i] = true
				}
			}

			var ids []int
			for i, c := range covered {
				if c == keep {
					ids = append(ids, i)
				}
			}
			m.SetData(m.Frames(ids))
		}
	}
	return nil
}
