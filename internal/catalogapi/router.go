package catalogapi

// InitRouter registers all catalog and auth routes on the webserver
func InitRouter() {
	registerProductRoutes()
	registerReportRoutes()
	registerAuthRoutes()
}
