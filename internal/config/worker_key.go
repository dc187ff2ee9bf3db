package config

type WorkerKeyStruct struct {
	PhotoCleanupQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PhotoCleanupQueue: "photo_cleanup_queue",
}
