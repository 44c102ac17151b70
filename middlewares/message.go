package middlewares

var Responses = struct {
	FailedValidations   *NewRM
	InternalServerError *NewRM
	UserNotFound        *NewRM
	InvalidRoles        *NewRM
	SubmissionNotFound  *NewRM
	SubmissionPaid      *NewRM
	MissingCredentials  *NewRM
	MercadoPagoProblems *NewRM
}{
	FailedValidations: &NewRM{
		Language.English: "Failed field validations",
		Language.Spanish: "Las validaciones de los campos fallaron",
	},
	InternalServerError: &NewRM{
		Language.English: "Internal server error",
		Language.Spanish: "Problemas con el servidor",
	},
	UserNotFound: &NewRM{
		Language.English: "User not found",
		Language.Spanish: "No se encontró el usuario",
	},
	InvalidRoles: &NewRM{
		Language.English: "Invalid roles",
		Language.Spanish: "No tienes permiso para realizar esta acción",
	},
	SubmissionNotFound: &NewRM{
		Language.English: "Submission not found",
		Language.Spanish: "No se encontró la inscripción",
	},
	SubmissionPaid: &NewRM{
		Language.English: "Submission already paid",
		Language.Spanish: "La inscripción ya está pagada",
	},
	MissingCredentials: &NewRM{
		Language.English: "No payment credentials configured",
		Language.Spanish: "No hay credenciales de pago configuradas",
	},
	MercadoPagoProblems: &NewRM{
		Language.English: "Problems with Mercado Pago",
		Language.Spanish: "Problemas con Mercado Pago",
	},
}

type NewRM map[string]string

var Language = struct {
	English string
	Spanish string
}{
	English: "en",
	Spanish: "es",
}

var LanguageMap = map[string]string{
	Language.Spanish: "Spanish",
	Language.English: "English",
}
