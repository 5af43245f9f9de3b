package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"areactl/internal/catalog"
)

// catalogRoute describes where a catalog kind lives on the backend.
type catalogRoute struct {
	path    string
	listKey string
}

var catalogRoutes = map[catalog.Kind]catalogRoute{
	catalog.KindAction:   {path: "action/", listKey: "ActionsName"},
	catalog.KindModifier: {path: "modifiers/", listKey: "ModifiersName"},
	catalog.KindReaction: {path: "reaction/", listKey: "ReactionsName"},
}

func routeFor(kind catalog.Kind) (catalogRoute, error) {
	r, ok := catalogRoutes[kind]
	if !ok {
		return catalogRoute{}, fmt.Errorf("%w: %q", catalog.ErrUnknownKind, kind)
	}
	return r, nil
}

// ListNames returns the technical names of every entry of a kind.
func (c *Client) ListNames(ctx context.Context, kind catalog.Kind) ([]string, error) {
	route, err := routeFor(kind)
	if err != nil {
		return nil, err
	}

	body, err := c.do(ctx, http.MethodGet, route.path, nil)
	if err != nil {
		return nil, err
	}

	doc := gjson.ParseBytes(body)
	list := doc.Get(route.listKey)
	if doc.IsArray() {
		list = doc
	}

	var names []string
	for _, n := range list.Array() {
		if s := n.String(); s != "" {
			names = append(names, s)
		}
	}
	return names, nil
}

// Detail fetches the full definition of one catalog entry.
func (c *Client) Detail(ctx context.Context, kind catalog.Kind, name string) (catalog.Entry, error) {
	route, err := routeFor(kind)
	if err != nil {
		return catalog.Entry{}, err
	}

	body, err := c.do(ctx, http.MethodGet, route.path+url.PathEscape(name), nil)
	if err != nil {
		return catalog.Entry{}, err
	}
	if !gjson.ValidBytes(body) {
		return catalog.Entry{}, fmt.Errorf("invalid %s detail for %q", kind, name)
	}

	e := parseEntry(kind, gjson.ParseBytes(body))
	if e.Name == "" {
		e.Name = name
	}
	return e, nil
}
