package scaffold

type (
	// Sent when the project scaffold exists, freshly created or not.
	EventCreated struct {
		Path           string
		AlreadyExisted bool
	}

	// Sent when the manifest has been parsed.
	EventParsed struct {
		Path string
	}

	// Sent when the catalog additions have been applied in memory.
	EventAugmented struct{}

	// Sent when the harness source has been written, or found already
	// installed.
	EventHarnessWritten struct {
		Path string
	}

	// Sent when the updated manifest has been written to disk.
	EventManifestWritten struct {
		Path string
	}

	// Sent when the run has completed, successfully or not.
	EventDone struct {
		Err error
	}
)
