// Package model contiene las entidades de dominio de RapidoExpress.
package model

import "time"

// Estado representa un estado del catálogo de destinos.
type Estado struct {
	ID     int    `json:"id_estado"`
	Nombre string `json:"nombre_estado"`
}

// Ciudad representa una ciudad perteneciente a un estado.
type Ciudad struct {
	ID       int    `json:"id_ciudad"`
	Nombre   string `json:"nombre_ciudad"`
	IDEstado int    `json:"id_estado"`
}

// Cliente representa un cliente registrado en el sistema.
type Cliente struct {
	ID     int    `json:"id_cliente"`
	Nombre string `json:"nombre"`
	Correo string `json:"correo"`
}

// EstatusEnvio describe el estatus de procesamiento de un envío.
type EstatusEnvio string

const (
	EstatusRegistrado    EstatusEnvio = "Registered"
	EstatusEnPreparacion EstatusEnvio = "InPreparation"
	EstatusEnviado       EstatusEnvio = "Shipped"
	EstatusEntregado     EstatusEnvio = "Delivered"
)

// NuevoEnvio contiene los datos necesarios para registrar un envío.
type NuevoEnvio struct {
	IDCliente   int
	IDCiudad    int
	Descripcion string
}

// NuevoCliente contiene los datos necesarios para registrar un cliente.
type NuevoCliente struct {
	Nombre string
	Correo string
}

// DetalleEnvio describe un envío con los datos del cliente y del destino.
type DetalleEnvio struct {
	ID            int
	Descripcion   string
	FechaEnvio    time.Time
	Estatus       string
	NombreCliente string
	Correo        string
	CiudadDestino string
	EstadoDestino string
}

// EnvioCliente describe un envío dentro del listado de un cliente.
type EnvioCliente struct {
	ID            int
	Descripcion   string
	FechaEnvio    time.Time
	Estatus       string
	CiudadDestino string
}

// Resultado es el desenlace estructurado de una operación de escritura:
// la bandera de éxito y el mensaje legible producido por el procedimiento
// almacenado.
type Resultado struct {
	Exito   bool
	Mensaje string
}
