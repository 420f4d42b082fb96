package sim

import (
	"github.com/sirupsen/logrus"
)

// Simulator is the core object that holds simulation time, the topology,
// the cache helper, and the event loop. There is a single logical thread of
// control: events run to completion in timestamp order, so cache mutation
// is never concurrent with a read of the same cache.
type Simulator struct {
	Clock   int64
	Horizon int64

	Events   *EventHeap
	Topology *Topology
	Helper   *NeighborCacheHelper
}

func NewSimulator(horizon int64, topology *Topology) *Simulator {
	return &Simulator{
		Horizon:  horizon,
		Events:   NewEventHeap(),
		Topology: topology,
		Helper:   NewNeighborCacheHelper(topology),
	}
}

// Schedule pushes an event into the simulator's event queue.
func (sim *Simulator) Schedule(ev Event) {
	sim.Events.Schedule(ev)
}

// Run drains the event queue, advancing the clock to each event's
// timestamp, until the queue is empty or the horizon is crossed.
func (sim *Simulator) Run() {
	for sim.Events.Len() > 0 {
		ev := sim.Events.PopNext()
		if ev.Timestamp() > sim.Horizon {
			logrus.Infof("[tick %07d] Horizon reached, stopping", sim.Clock)
			return
		}
		sim.Clock = ev.Timestamp()
		logrus.Infof("[tick %07d] Executing %s", sim.Clock, ev.Type())
		ev.Execute(sim)
	}
	logrus.Infof("[tick %07d] Simulation ended", sim.Clock)
}
