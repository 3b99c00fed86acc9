package domain

import "socomec2mqtt/pkg/jbus"

// UPS control commands. All register writes go through the modbus actor,
// so these are plain actor requests routed by the master.

type UPSCommandRequest struct {
	ActorRequestMixIn
	Name string
}

type UPSCommandResponse struct {
	ActorResponseMixIn
	Name string
}

type SetParamRequest struct {
	ActorRequestMixIn
	Name  string
	Value int
}

type SetParamResponse struct {
	ActorResponseMixIn
	Params jbus.Params
}

type ShutdownRequest struct {
	ActorRequestMixIn
}

type ShutdownResponse struct {
	ActorResponseMixIn
}

// ParamsUpdated is sent by the modbus actor to its parent after a
// successful parameter change so the new value can be echoed to MQTT.
type ParamsUpdated struct {
	Params jbus.Params
}
