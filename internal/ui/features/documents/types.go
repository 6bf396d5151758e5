package documents

// DefaultMaxUploadBytes bounds a single upload request.
const DefaultMaxUploadBytes int64 = 64 << 20

// multipartMemory is how much of a form is buffered in memory before
// parts spill to temporary files.
const multipartMemory = 8 << 20
