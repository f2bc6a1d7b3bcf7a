package queries

// DocumentQueries contient toutes les requêtes SQL du magasin de documents
var DocumentQueries = struct {
	GetDocumentByKey string
	InsertDocument   string
	UpdateDocument   string
	EnsureSchema     string
	EnsureTrigger    string
}{
	// GetDocumentByKey - Lookup ponctuel d'un document par sa clé fixe
	GetDocumentByKey: `
		SELECT payload, updated_at
		FROM app_documents
		WHERE doc_key = $1
	`,

	// InsertDocument - Création de la ligne (premier démarrage sur base vide)
	InsertDocument: `
		INSERT INTO app_documents (doc_key, payload, updated_at)
		VALUES ($1, $2, NOW())
	`,

	// UpdateDocument - Remplacement intégral du payload (dernier écrivain gagne)
	UpdateDocument: `
		UPDATE app_documents
		SET payload = $2, updated_at = NOW()
		WHERE doc_key = $1
	`,

	// EnsureSchema - Le "schéma" complet tient dans une table clé/payload
	EnsureSchema: `
		CREATE TABLE IF NOT EXISTS app_documents (
			doc_key    TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`,

	// EnsureTrigger - Notification de changement vers les sessions connectées.
	// Le payload de la notification est la clé du document, jamais son contenu
	// (limite pg_notify à 8 Ko) : les abonnés relisent la ligne.
	EnsureTrigger: `
		CREATE OR REPLACE FUNCTION notify_document_change() RETURNS trigger AS $$
		BEGIN
			PERFORM pg_notify('surgicare_doc_changes', NEW.doc_key);
			RETURN NEW;
		END;
		$$ LANGUAGE plpgsql;

		DROP TRIGGER IF EXISTS app_documents_notify ON app_documents;
		CREATE TRIGGER app_documents_notify
			AFTER INSERT OR UPDATE ON app_documents
			FOR EACH ROW EXECUTE FUNCTION notify_document_change();
	`,
}
