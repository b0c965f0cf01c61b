package entity

// Roles válidos emitidos en el claim "role" del JWT.
const (
	RoleBodeguero         = "bodeguero"
	RoleSecretarioTecnico = "secretario_tecnico"
	RoleSupervisor        = "supervisor"
	RoleTecnico           = "tecnico"
)

// Roles autorizados para aprobar o rechazar solicitudes.
var RequestApproverRoles = []string{RoleSupervisor, RoleTecnico}

// Roles autorizados para resolver alertas y lanzar revisiones.
var AlertResolverRoles = []string{RoleTecnico, RoleSupervisor, RoleSecretarioTecnico}
