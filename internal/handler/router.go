package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/eduardovg09/RapidoExpressAPI/internal/middleware"
	"github.com/eduardovg09/RapidoExpressAPI/web"
)

// SetupRouter configura las rutas HTTP y los middleware del servicio.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/estados", h.ListarEstados)

		r.Route("/clientes", func(r chi.Router) {
			r.Get("/", h.ListarClientes)
			r.Post("/", h.RegistrarCliente)
			r.Delete("/{id_cliente}", h.EliminarCliente)
			r.Get("/{id_cliente}/envios", h.EnviosPorCliente)
		})

		r.Get("/ciudades/{id_estado}", h.ListarCiudades)

		r.Route("/envios", func(r chi.Router) {
			r.Post("/", h.RegistrarEnvio)
			r.Get("/{id_envio}", h.DetalleEnvio)
			r.Put("/{id_envio}/estatus", h.ActualizarEstatus)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			h.escribirMensaje(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
		})

		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			h.escribirMensaje(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
		})
	})

	// El cliente web se sirve embebido desde la raíz.
	r.Handle("/*", http.FileServer(http.FS(web.Static())))

	return r
}
