package server

func (s *Server) SetupRoutes() {
	s.router.GET("/health", s.handler.Health)

	api := s.router.Group("/api")
	{
		api.GET("/models", s.handler.ListModels)
		api.GET("/schema", s.handler.GetSchema)
		api.POST("/generate_image", s.handler.GenerateImage)
		api.GET("/images", s.handler.ListImages)
		api.GET("/image", s.handler.GetImage)
	}
}
