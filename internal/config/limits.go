package config

const (
	MaxUploadBytes     = 10 * 1024 * 1024 // 10MB per PDF
	MaxMultipartMemory = 16 << 20         // 16MB for the whole form
	MaxDocumentChars   = 12000            // prompt prefix of the extracted text
)
