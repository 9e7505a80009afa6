package pages

import (
	"golang.org/x/text/language"

	"webappmanager/internal/i18n"
)

var catalog = map[language.Tag]map[string]string{
	language.English: {
		"app.name":          "WebApp Manager",
		"nav.dashboard":     "Dashboard",
		"nav.gallery":       "Gallery",
		"nav.users":         "Users",
		"nav.privacy":       "Privacy",
		"nav.login":         "Sign in",
		"nav.logout":        "Sign out",
		"login.title":       "Sign in",
		"login.email":       "Email",
		"login.password":    "Password",
		"login.submit":      "Sign in",
		"login.failed":      "The email or password is incorrect.",
		"login.inactive":    "This account is suspended.",
		"dashboard.title":   "Dashboard",
		"dashboard.welcome": "Welcome back",
		"dashboard.role":    "Role",
		"dashboard.expires": "Session expires",
		"dashboard.caps":    "Permissions",
		"dashboard.recent":  "Recent uploads",
		"gallery.title":     "Gallery",
		"gallery.upload":    "Upload",
		"gallery.empty":     "No images yet.",
		"gallery.delete":    "Delete",
		"users.title":       "Users",
		"users.email":       "Email",
		"users.name":        "Name",
		"users.role":        "Role",
		"users.status":      "Status",
		"users.created":     "Created",
		"privacy.title":     "Privacy policy",
		"privacy.updated":   "Last updated",
		"error.title":       "Something went wrong",
		"error.forbidden":   "You do not have permission to view this page.",
		"error.notfound":    "The page you requested does not exist.",
		"error.internal":    "An unexpected error occurred.",
	},
	language.Spanish: {
		"app.name":          "WebApp Manager",
		"nav.dashboard":     "Panel",
		"nav.gallery":       "Galería",
		"nav.users":         "Usuarios",
		"nav.privacy":       "Privacidad",
		"nav.login":         "Iniciar sesión",
		"nav.logout":        "Cerrar sesión",
		"login.title":       "Iniciar sesión",
		"login.email":       "Correo electrónico",
		"login.password":    "Contraseña",
		"login.submit":      "Entrar",
		"login.failed":      "El correo o la contraseña no son correctos.",
		"login.inactive":    "Esta cuenta está suspendida.",
		"dashboard.title":   "Panel",
		"dashboard.welcome": "Bienvenido de nuevo",
		"dashboard.role":    "Rol",
		"dashboard.expires": "La sesión caduca",
		"dashboard.caps":    "Permisos",
		"dashboard.recent":  "Subidas recientes",
		"gallery.title":     "Galería",
		"gallery.upload":    "Subir",
		"gallery.empty":     "Todavía no hay imágenes.",
		"gallery.delete":    "Eliminar",
		"users.title":       "Usuarios",
		"users.email":       "Correo",
		"users.name":        "Nombre",
		"users.role":        "Rol",
		"users.status":      "Estado",
		"users.created":     "Creado",
		"privacy.title":     "Política de privacidad",
		"privacy.updated":   "Última actualización",
		"error.title":       "Algo salió mal",
		"error.forbidden":   "No tienes permiso para ver esta página.",
		"error.notfound":    "La página solicitada no existe.",
		"error.internal":    "Se produjo un error inesperado.",
	},
	language.French: {
		"app.name":          "WebApp Manager",
		"nav.dashboard":     "Tableau de bord",
		"nav.gallery":       "Galerie",
		"nav.users":         "Utilisateurs",
		"nav.privacy":       "Confidentialité",
		"nav.login":         "Connexion",
		"nav.logout":        "Déconnexion",
		"login.title":       "Connexion",
		"login.email":       "Adresse e-mail",
		"login.password":    "Mot de passe",
		"login.submit":      "Se connecter",
		"login.failed":      "L'adresse e-mail ou le mot de passe est incorrect.",
		"login.inactive":    "Ce compte est suspendu.",
		"dashboard.title":   "Tableau de bord",
		"dashboard.welcome": "Bon retour",
		"dashboard.role":    "Rôle",
		"dashboard.expires": "La session expire",
		"dashboard.caps":    "Autorisations",
		"dashboard.recent":  "Envois récents",
		"gallery.title":     "Galerie",
		"gallery.upload":    "Envoyer",
		"gallery.empty":     "Aucune image pour le moment.",
		"gallery.delete":    "Supprimer",
		"users.title":       "Utilisateurs",
		"users.email":       "E-mail",
		"users.name":        "Nom",
		"users.role":        "Rôle",
		"users.status":      "Statut",
		"users.created":     "Créé",
		"privacy.title":     "Politique de confidentialité",
		"privacy.updated":   "Dernière mise à jour",
		"error.title":       "Une erreur est survenue",
		"error.forbidden":   "Vous n'avez pas l'autorisation de voir cette page.",
		"error.notfound":    "La page demandée n'existe pas.",
		"error.internal":    "Une erreur inattendue s'est produite.",
	},
}

// T looks key up for lang, falling back to English and then to the key.
func T(lang language.Tag, key string) string {
	if msg, ok := catalog[i18n.Match(lang.String())][key]; ok {
		return msg
	}
	if msg, ok := catalog[i18n.Supported[0]][key]; ok {
		return msg
	}
	return key
}
