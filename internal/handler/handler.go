// Package handler contiene los manejadores HTTP del API de RapidoExpress.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/eduardovg09/RapidoExpressAPI/internal/model"
	"github.com/eduardovg09/RapidoExpressAPI/internal/repository"
)

const (
	mensajeErrorInterno      = "Error interno del servidor"
	mensajePeticionInvalida  = "Petición inválida"
	mensajeIDInvalido        = "Identificador inválido"
	mensajeEnvioNoEncontrado = "Envío no encontrado"
)

// Service define el contrato de lógica de negocio usado por los manejadores HTTP.
type Service interface {
	ListarEstados(ctx context.Context) ([]model.Estado, error)
	ListarClientes(ctx context.Context) ([]model.Cliente, error)
	CiudadesPorEstado(ctx context.Context, idEstado int) ([]model.Ciudad, error)
	RegistrarCliente(ctx context.Context, nuevo model.NuevoCliente) (model.Resultado, error)
	RegistrarEnvio(ctx context.Context, nuevo model.NuevoEnvio) (model.Resultado, error)
	EliminarCliente(ctx context.Context, idCliente int) (model.Resultado, error)
	ActualizarEstatus(ctx context.Context, idEnvio int, estatus string) (model.Resultado, error)
	DetalleEnvio(ctx context.Context, idEnvio int) (*model.DetalleEnvio, error)
	EnviosPorCliente(ctx context.Context, idCliente int) ([]model.EnvioCliente, error)
}

// Handler implementa los manejadores HTTP del API de RapidoExpress.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler crea un nuevo manejador de peticiones HTTP.
func NewHandler(s Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: s,
		logger:  logger,
	}
}

type mensajeResponse struct {
	Mensaje string `json:"mensaje"`
}

func (h *Handler) escribirJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", zap.Error(err))
	}
}

func (h *Handler) escribirMensaje(w http.ResponseWriter, status int, mensaje string) {
	h.escribirJSON(w, status, mensajeResponse{Mensaje: mensaje})
}

// escribirResultado traduce un resultado clasificado al código HTTP
// correspondiente: statusExito si la operación se completó, 400 si el
// procedimiento almacenado la rechazó. El mensaje pasa íntegro al cliente.
func (h *Handler) escribirResultado(w http.ResponseWriter, statusExito int, res model.Resultado) {
	if res.Exito {
		h.escribirMensaje(w, statusExito, res.Mensaje)
		return
	}
	h.escribirMensaje(w, http.StatusBadRequest, res.Mensaje)
}

func idDeRuta(r *http.Request, nombre string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, nombre))
	if err != nil {
		return 0, false
	}
	return id, true
}

// ListarEstados devuelve el catálogo de estados ordenado por nombre.
func (h *Handler) ListarEstados(w http.ResponseWriter, r *http.Request) {
	estados, err := h.service.ListarEstados(r.Context())
	if err != nil {
		h.logger.Error("listar estados error", zap.Error(err))
		h.escribirMensaje(w, http.StatusInternalServerError, mensajeErrorInterno)
		return
	}

	resp := make([]model.Estado, 0, len(estados))
	resp = append(resp, estados...)

	h.escribirJSON(w, http.StatusOK, resp)
}

// ListarClientes devuelve todos los clientes ordenados por nombre.
func (h *Handler) ListarClientes(w http.ResponseWriter, r *http.Request) {
	clientes, err := h.service.ListarClientes(r.Context())
	if err != nil {
		h.logger.Error("listar clientes error", zap.Error(err))
		h.escribirMensaje(w, http.StatusInternalServerError, mensajeErrorInterno)
		return
	}

	resp := make([]model.Cliente, 0, len(clientes))
	resp = append(resp, clientes...)

	h.escribirJSON(w, http.StatusOK, resp)
}

// ListarCiudades devuelve las ciudades del estado indicado en la ruta.
// Un estado desconocido produce una lista vacía, no un error.
func (h *Handler) ListarCiudades(w http.ResponseWriter, r *http.Request) {
	idEstado, ok := idDeRuta(r, "id_estado")
	if !ok {
		h.escribirMensaje(w, http.StatusBadRequest, mensajeIDInvalido)
		return
	}

	ciudades, err := h.service.CiudadesPorEstado(r.Context(), idEstado)
	if err != nil {
		h.logger.Error("listar ciudades error", zap.Error(err), zap.Int("id_estado", idEstado))
		h.escribirMensaje(w, http.StatusInternalServerError, mensajeErrorInterno)
		return
	}

	resp := make([]model.Ciudad, 0, len(ciudades))
	resp = append(resp, ciudades...)

	h.escribirJSON(w, http.StatusOK, resp)
}

type clienteRequest struct {
	Nombre string `json:"nombre"`
	Correo string `json:"correo"`
}

// RegistrarCliente da de alta un cliente nuevo.
func (h *Handler) RegistrarCliente(w http.ResponseWriter, r *http.Request) {
	var req clienteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.escribirMensaje(w, http.StatusBadRequest, mensajePeticionInvalida)
		return
	}

	if req.Nombre == "" || req.Correo == "" {
		h.escribirMensaje(w, http.StatusBadRequest, "Nombre y correo son requeridos")
		return
	}

	res, err := h.service.RegistrarCliente(r.Context(), model.NuevoCliente{
		Nombre: req.Nombre,
		Correo: req.Correo,
	})
	if err != nil {
		h.logger.Error("registrar cliente error", zap.Error(err))
		h.escribirMensaje(w, http.StatusInternalServerError, mensajeErrorInterno)
		return
	}

	h.escribirResultado(w, http.StatusCreated, res)
}

type envioRequest struct {
	IDCliente   int    `json:"id_cliente"`
	IDCiudad    int    `json:"id_ciudad"`
	Descripcion string `json:"descripcion"`
}

// RegistrarEnvio da de alta un envío nuevo.
func (h *Handler) RegistrarEnvio(w http.ResponseWriter, r *http.Request) {
	var req envioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.escribirMensaje(w, http.StatusBadRequest, mensajePeticionInvalida)
		return
	}

	if req.IDCliente == 0 || req.IDCiudad == 0 || req.Descripcion == "" {
		h.escribirMensaje(w, http.StatusBadRequest, "Cliente, ciudad y descripción son requeridos")
		return
	}

	res, err := h.service.RegistrarEnvio(r.Context(), model.NuevoEnvio{
		IDCliente:   req.IDCliente,
		IDCiudad:    req.IDCiudad,
		Descripcion: req.Descripcion,
	})
	if err != nil {
		h.logger.Error("registrar envio error", zap.Error(err))
		h.escribirMensaje(w, http.StatusInternalServerError, mensajeErrorInterno)
		return
	}

	h.escribirResultado(w, http.StatusCreated, res)
}

// EliminarCliente da de baja un cliente sin envíos registrados.
func (h *Handler) EliminarCliente(w http.ResponseWriter, r *http.Request) {
	idCliente, ok := idDeRuta(r, "id_cliente")
	if !ok {
		h.escribirMensaje(w, http.StatusBadRequest, mensajeIDInvalido)
		return
	}

	res, err := h.service.EliminarCliente(r.Context(), idCliente)
	if err != nil {
		h.logger.Error("eliminar cliente error", zap.Error(err), zap.Int("id_cliente", idCliente))
		h.escribirMensaje(w, http.StatusInternalServerError, mensajeErrorInterno)
		return
	}

	h.escribirResultado(w, http.StatusOK, res)
}

type detalleEnvioResponse struct {
	IDEnvio       int    `json:"id_envio"`
	Descripcion   string `json:"descripcion"`
	FechaEnvio    string `json:"fecha_envio"`
	Estatus       string `json:"estatus"`
	NombreCliente string `json:"nombre_cliente"`
	Correo        string `json:"correo"`
	CiudadDestino string `json:"ciudad_destino"`
	EstadoDestino string `json:"estado_destino"`
}

// DetalleEnvio devuelve el detalle completo de un envío.
func (h *Handler) DetalleEnvio(w http.ResponseWriter, r *http.Request) {
	idEnvio, ok := idDeRuta(r, "id_envio")
	if !ok {
		h.escribirMensaje(w, http.StatusBadRequest, mensajeIDInvalido)
		return
	}

	detalle, err := h.service.DetalleEnvio(r.Context(), idEnvio)
	if err != nil {
		if errors.Is(err, repository.ErrEnvioNoEncontrado) {
			h.escribirMensaje(w, http.StatusNotFound, mensajeEnvioNoEncontrado)
			return
		}
		h.logger.Error("detalle envio error", zap.Error(err), zap.Int("id_envio", idEnvio))
		h.escribirMensaje(w, http.StatusInternalServerError, mensajeErrorInterno)
		return
	}

	h.escribirJSON(w, http.StatusOK, detalleEnvioResponse{
		IDEnvio:       detalle.ID,
		Descripcion:   detalle.Descripcion,
		FechaEnvio:    detalle.FechaEnvio.Format(time.RFC3339),
		Estatus:       detalle.Estatus,
		NombreCliente: detalle.NombreCliente,
		Correo:        detalle.Correo,
		CiudadDestino: detalle.CiudadDestino,
		EstadoDestino: detalle.EstadoDestino,
	})
}

type envioClienteResponse struct {
	IDEnvio       int    `json:"id_envio"`
	Descripcion   string `json:"descripcion"`
	FechaEnvio    string `json:"fecha_envio"`
	Estatus       string `json:"estatus"`
	CiudadDestino string `json:"ciudad_destino"`
}

// EnviosPorCliente devuelve los envíos de un cliente, del más reciente al
// más antiguo.
func (h *Handler) EnviosPorCliente(w http.ResponseWriter, r *http.Request) {
	idCliente, ok := idDeRuta(r, "id_cliente")
	if !ok {
		h.escribirMensaje(w, http.StatusBadRequest, mensajeIDInvalido)
		return
	}

	envios, err := h.service.EnviosPorCliente(r.Context(), idCliente)
	if err != nil {
		h.logger.Error("envios por cliente error", zap.Error(err), zap.Int("id_cliente", idCliente))
		h.escribirMensaje(w, http.StatusInternalServerError, mensajeErrorInterno)
		return
	}

	resp := make([]envioClienteResponse, 0, len(envios))
	for _, e := range envios {
		resp = append(resp, envioClienteResponse{
			IDEnvio:       e.ID,
			Descripcion:   e.Descripcion,
			FechaEnvio:    e.FechaEnvio.Format(time.RFC3339),
			Estatus:       e.Estatus,
			CiudadDestino: e.CiudadDestino,
		})
	}

	h.escribirJSON(w, http.StatusOK, resp)
}

type estatusRequest struct {
	Estatus string `json:"estatus"`
}

// ActualizarEstatus cambia el estatus de un envío existente. Se acepta
// cualquier estatus no vacío; no hay transiciones prohibidas.
func (h *Handler) ActualizarEstatus(w http.ResponseWriter, r *http.Request) {
	idEnvio, ok := idDeRuta(r, "id_envio")
	if !ok {
		h.escribirMensaje(w, http.StatusBadRequest, mensajeIDInvalido)
		return
	}

	var req estatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.escribirMensaje(w, http.StatusBadRequest, mensajePeticionInvalida)
		return
	}

	if req.Estatus == "" {
		h.escribirMensaje(w, http.StatusBadRequest, "El estatus es requerido")
		return
	}

	res, err := h.service.ActualizarEstatus(r.Context(), idEnvio, req.Estatus)
	if err != nil {
		h.logger.Error("actualizar estatus error", zap.Error(err), zap.Int("id_envio", idEnvio))
		h.escribirMensaje(w, http.StatusInternalServerError, mensajeErrorInterno)
		return
	}

	h.escribirResultado(w, http.StatusOK, res)
}
