package config

// Application constants
const (
	AppName = "gxkit"

	// Version history
	DefaultMinVersion   = "8.5"
	HistoryFileName     = "version_history.rst"
	HistoryTemplateName = "version_history.rst"

	// Table files
	DefaultTableExt = ".csv"
	GeosoftCSVDir   = "csv"

	// Golden harness layout, relative to GoldenConfig.Root
	GoldenResultDir = "result"
	GoldenMasterDir = "master"

	// Default file permissions
	DirPerm  = 0755
	FilePerm = 0644
)
