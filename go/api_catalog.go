package storefrontserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	catalogmapper "github.com/Apurer/go-storefront-api/internal/domains/catalog/adapters/http/mapper"
	catalogtypes "github.com/Apurer/go-storefront-api/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/go-storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-storefront-api/internal/shared/i18n"
)

// SearchRankedHeader reports whether a /search body is relevance-ranked or the unranked catalog.
const SearchRankedHeader = "X-Search-Ranked"

// CatalogAPI wires HTTP transport with the catalog bounded context service.
type CatalogAPI struct {
	service     catalogports.Service
	defaultLang i18n.Language
}

// NewCatalogAPI creates a CatalogAPI backed by the provided service.
func NewCatalogAPI(service catalogports.Service, defaultLang i18n.Language) CatalogAPI {
	if !defaultLang.IsSupported() {
		defaultLang = i18n.Default
	}
	return CatalogAPI{service: service, defaultLang: defaultLang}
}

// Get /search
// Ranks the catalog against a free-text query
func (api *CatalogAPI) SearchCatalog(c *gin.Context) {
	var query string
	if err := runtime.BindQueryParameter("form", true, false, "q", c.Request.URL.Query(), &query); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	lang, ok := api.bindLanguage(c)
	if !ok {
		return
	}
	result, err := api.service.Search(c.Request.Context(), catalogtypes.SearchInput{Query: query, Language: lang})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Language", result.Language.String())
	c.Header(SearchRankedHeader, strconv.FormatBool(result.Ranked))
	c.JSON(http.StatusOK, catalogmapper.FromDomainEntries(result.Entries, result.Language))
}

// Get /catalog
// Lists catalog entries in catalog order
func (api *CatalogAPI) ListCatalogEntries(c *gin.Context) {
	var page, pageSize int
	params := c.Request.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "page", params, &page); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "pageSize", params, &pageSize); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	lang, ok := api.bindLanguage(c)
	if !ok {
		return
	}
	result, err := api.service.ListEntries(c.Request.Context(), catalogtypes.ListEntriesInput{Page: page, PageSize: pageSize})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromPage(result, lang))
}

// Get /catalog/:entryId
// Finds a catalog entry by ID
func (api *CatalogAPI) GetCatalogEntry(c *gin.Context) {
	lang, ok := api.bindLanguage(c)
	if !ok {
		return
	}
	entry, err := api.service.GetEntry(c.Request.Context(), catalogtypes.EntryIdentifier{ID: c.Param("entryId")})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromProjection(entry, lang))
}

// Post /catalog
// Adds a catalog entry
func (api *CatalogAPI) AddCatalogEntry(c *gin.Context) {
	var payload catalogmapper.MutationEntry
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	input := catalogtypes.AddEntryInput{EntryMutationInput: catalogmapper.ToMutationInput(payload)}
	saved, err := api.service.AddEntry(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, catalogmapper.FromProjection(saved, api.defaultLang))
}

// Put /catalog/:entryId
// Updates an existing catalog entry
func (api *CatalogAPI) UpdateCatalogEntry(c *gin.Context) {
	var payload catalogmapper.MutationEntry
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	payload.ID = c.Param("entryId")
	input := catalogtypes.UpdateEntryInput{EntryMutationInput: catalogmapper.ToMutationInput(payload)}
	updated, err := api.service.UpdateEntry(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromProjection(updated, api.defaultLang))
}

// Delete /catalog/:entryId
// Deletes a catalog entry
func (api *CatalogAPI) DeleteCatalogEntry(c *gin.Context) {
	if err := api.service.DeleteEntry(c.Request.Context(), catalogtypes.EntryIdentifier{ID: c.Param("entryId")}); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bindLanguage reads ?lang=, falling back to Accept-Language and then the default.
func (api *CatalogAPI) bindLanguage(c *gin.Context) (i18n.Language, bool) {
	return bindLanguage(c, api.defaultLang)
}

func bindLanguage(c *gin.Context, fallback i18n.Language) (i18n.Language, bool) {
	var raw string
	if err := runtime.BindQueryParameter("form", true, false, "lang", c.Request.URL.Query(), &raw); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return "", false
	}
	if raw == "" {
		raw = c.GetHeader("Accept-Language")
	}
	return i18n.ParseLanguage(raw, fallback), true
}
