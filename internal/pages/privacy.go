package pages

import (
	"time"

	"golang.org/x/text/language"

	"webappmanager/internal/i18n"
)

type PolicySection struct {
	Heading string
	Body    string
}

type PrivacyPolicy struct {
	Updated  time.Time
	Sections []PolicySection
}

var policyUpdated = time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)

var policies = map[language.Tag][]PolicySection{
	language.English: {
		{"Information we collect", "We store the email address, display name, role and optional phone number of each account, together with the images you upload and their metadata."},
		{"How we use it", "Account data is used only to sign you in and decide what you are allowed to do. Images are shown to signed-in members of your workspace."},
		{"Cookies", "We set one session cookie to keep you signed in and one cookie to remember your language. Neither is used for tracking."},
		{"Retention", "Deleted images are removed from storage by a daily cleanup job. Accounts are removed when an administrator deletes them."},
		{"Contact", "Questions about this policy can be sent to your workspace administrator."},
	},
	language.Spanish: {
		{"Información que recopilamos", "Guardamos el correo electrónico, el nombre visible, el rol y el teléfono opcional de cada cuenta, junto con las imágenes que subes y sus metadatos."},
		{"Cómo la usamos", "Los datos de la cuenta solo se usan para iniciar tu sesión y decidir qué puedes hacer. Las imágenes se muestran a los miembros con sesión iniciada."},
		{"Cookies", "Usamos una cookie de sesión para mantenerte conectado y otra para recordar tu idioma. Ninguna se usa para seguimiento."},
		{"Conservación", "Las imágenes eliminadas se borran del almacenamiento mediante una limpieza diaria. Las cuentas se eliminan cuando un administrador las borra."},
		{"Contacto", "Puedes enviar tus preguntas sobre esta política al administrador de tu espacio de trabajo."},
	},
	language.French: {
		{"Données collectées", "Nous conservons l'adresse e-mail, le nom affiché, le rôle et le numéro de téléphone facultatif de chaque compte, ainsi que les images envoyées et leurs métadonnées."},
		{"Utilisation", "Les données du compte servent uniquement à vous connecter et à déterminer vos autorisations. Les images sont visibles par les membres connectés."},
		{"Cookies", "Nous utilisons un cookie de session pour vous garder connecté et un cookie pour mémoriser votre langue. Aucun n'est utilisé pour le suivi."},
		{"Conservation", "Les images supprimées sont effacées du stockage par un nettoyage quotidien. Les comptes sont supprimés lorsqu'un administrateur les efface."},
		{"Contact", "Les questions sur cette politique peuvent être adressées à l'administrateur de votre espace."},
	},
}

// Policy returns the privacy policy in lang, or English when unavailable.
func Policy(lang language.Tag) PrivacyPolicy {
	sections, ok := policies[i18n.Match(lang.String())]
	if !ok {
		sections = policies[language.English]
	}
	return PrivacyPolicy{Updated: policyUpdated, Sections: sections}
}
