package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/okudrin/habitry/internal/service"
)

type Server struct {
	mx              *chi.Mux
	userService     service.UserServiceI
	habitsService   service.HabitsServiceI
	trackingService service.TrackingServiceI
	jwtService      JWTServiceI
}

type ServicesList struct {
	UserService     service.UserServiceI
	HabitsService   service.HabitsServiceI
	TrackingService service.TrackingServiceI
	JwtService      JWTServiceI
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:              chi.NewMux(),
		userService:     servicesOptions.UserService,
		habitsService:   servicesOptions.HabitsService,
		trackingService: servicesOptions.TrackingService,
		jwtService:      servicesOptions.JwtService,
	}
	s.mountRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mx.ServeHTTP(w, r)
}

func (s *Server) Run(address string) error {
	return http.ListenAndServe(address, s)
}

func (s *Server) mountRoutes() {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
	s.mx.Get("/health", s.Health)
	s.mx.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.Register)
		r.Post("/login", s.Login)
	})
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)
		r.Post("/habits", s.CreateHabit)
		r.Get("/habits", s.GetHabits)
		r.Route("/habits/{id}", func(r chi.Router) {
			r.Get("/", s.GetHabit)
			r.Put("/", s.UpdateHabit)
			r.Delete("/", s.DeleteHabit)
			r.Post("/subhabits", s.AddSubHabit)
			r.Post("/logs", s.RecordProgress)
			r.Get("/logs", s.GetHabitLogs)
			r.Get("/stats", s.GetHabitStats)
		})
	})
}
