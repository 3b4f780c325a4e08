package clean

import (
	"time"

	"github.com/airenas/audio2text/internal/pkg/cmdapp"
)

type timerServiceData struct {
	runEvery     time.Duration
	cleaner      Cleaner
	idsProvider  OldIDsProvider
	qChan        chan struct{}
	workWaitChan chan struct{}
}

// StartCleanTimer runs periodic cleaning of expired jobs.
// The returned stop function waits for the loop to exit
func StartCleanTimer(runEvery time.Duration, cleaner Cleaner, idsProvider OldIDsProvider) (func(), error) {
	data := &timerServiceData{runEvery: runEvery, cleaner: cleaner, idsProvider: idsProvider,
		qChan: make(chan struct{}), workWaitChan: make(chan struct{})}
	cmdapp.Log.Infof("Starting clean timer service every %v", data.runEvery)
	go serviceLoop(data)
	return func() {
		close(data.qChan)
		<-data.workWaitChan
	}, nil
}

func serviceLoop(data *timerServiceData) {
	ticker := time.NewTicker(data.runEvery)
	// run on startup
	doClean(data)
mainloop:
	for {
		select {
		case <-ticker.C:
			doClean(data)
		case <-data.qChan:
			ticker.Stop()
			break mainloop
		}
	}
	cmdapp.Log.Infof("Stopped clean timer service")
	close(data.workWaitChan)
}

func doClean(data *timerServiceData) {
	cmdapp.Log.Info("Running cleaning")
	ids, err := data.idsProvider.Get()
	if err != nil {
		cmdapp.Log.Error(err)
	}
	cmdapp.Log.Infof("Got %d IDs to clean", len(ids))
	for _, id := range ids {
		err = data.cleaner.Clean(id)
		if err != nil {
			cmdapp.Log.Error(err)
		}
	}
}
