// Package gql declares the GraphQL schema and wires its resolvers to the
// auth and feed services. Execution is graphql-go's job; resolvers only
// translate arguments and return service results or classified errors.
package gql

import (
	"time"

	"github.com/graphql-go/graphql"

	"github.com/nikhilv/blogfeed/internal/auth"
	"github.com/nikhilv/blogfeed/internal/feed"
	"github.com/nikhilv/blogfeed/internal/middleware"
	"github.com/nikhilv/blogfeed/internal/models"
)

func postFrom(src interface{}) *models.Post {
	switch v := src.(type) {
	case *models.Post:
		return v
	case models.Post:
		return &v
	}
	return nil
}

func userFrom(src interface{}) *models.User {
	switch v := src.(type) {
	case *models.User:
		return v
	case models.User:
		return &v
	}
	return nil
}

// NewSchema builds the executable schema over the given services.
func NewSchema(authSvc *auth.Service, feedSvc *feed.Service, users auth.UserStore) (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"_id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return userFrom(p.Source).ID.Hex(), nil
				},
			},
			"email": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return userFrom(p.Source).Email, nil
				},
			},
			"name": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return userFrom(p.Source).Name, nil
				},
			},
			"status": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return userFrom(p.Source).Status, nil
				},
			},
			"posts": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					u := userFrom(p.Source)
					ids := make([]string, 0, len(u.Posts))
					for _, id := range u.Posts {
						ids = append(ids, id.Hex())
					}
					return ids, nil
				},
			},
		},
	})

	postType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.Fields{
			"_id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return postFrom(p.Source).ID.Hex(), nil
				},
			},
			"title": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return postFrom(p.Source).Title, nil
				},
			},
			"content": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return postFrom(p.Source).Content, nil
				},
			},
			"imageUrl": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return postFrom(p.Source).ImageURL, nil
				},
			},
			"creator": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return users.GetUserByID(p.Context, postFrom(p.Source).Creator.Hex())
				},
			},
			"createdAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return postFrom(p.Source).CreatedAt.Format(time.RFC3339), nil
				},
			},
			"updatedAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return postFrom(p.Source).UpdatedAt.Format(time.RFC3339), nil
				},
			},
		},
	})

	authDataType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthData",
		Fields: graphql.Fields{
			"userId": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"token":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	postDataType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PostData",
		Fields: graphql.Fields{
			"posts": &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(postType)))},
			"totalPosts": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return int(p.Source.(*models.PostPage).TotalItems), nil
				},
			},
		},
	})

	userInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UserInputData",
		Fields: graphql.InputObjectConfigFieldMap{
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"name":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	postInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "PostInputData",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"content":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"imageUrl": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"login": &graphql.Field{
				Type: graphql.NewNonNull(authDataType),
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return authSvc.Login(p.Context, p.Args["email"].(string), p.Args["password"].(string))
				},
			},
			"posts": &graphql.Field{
				Type: graphql.NewNonNull(postDataType),
				Args: graphql.FieldConfigArgument{
					"page": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return feedSvc.List(p.Context, p.Args["page"].(int))
				},
			},
			"post": &graphql.Field{
				Type: graphql.NewNonNull(postType),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return feedSvc.Get(p.Context, p.Args["id"].(string))
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createUser": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"userInput": &graphql.ArgumentConfig{Type: userInputType},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					in := p.Args["userInput"].(map[string]interface{})
					return authSvc.Register(p.Context, models.UserInput{
						Email:    in["email"].(string),
						Name:     in["name"].(string),
						Password: in["password"].(string),
					})
				},
			},
			"createPost": &graphql.Field{
				Type: graphql.NewNonNull(postType),
				Args: graphql.FieldConfigArgument{
					"postInput": &graphql.ArgumentConfig{Type: postInputType},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					in := p.Args["postInput"].(map[string]interface{})
					post, _, err := feedSvc.Create(p.Context, middleware.IdentityFrom(p.Context), models.PostInput{
						Title:    in["title"].(string),
						Content:  in["content"].(string),
						ImageURL: in["imageUrl"].(string),
					})
					if err != nil {
						return nil, err
					}
					return post, nil
				},
			},
			"updatePost": &graphql.Field{
				Type: graphql.NewNonNull(postType),
				Args: graphql.FieldConfigArgument{
					"id":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"postInput": &graphql.ArgumentConfig{Type: postInputType},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					in := p.Args["postInput"].(map[string]interface{})
					return feedSvc.Update(p.Context, middleware.IdentityFrom(p.Context), p.Args["id"].(string), models.PostInput{
						Title:    in["title"].(string),
						Content:  in["content"].(string),
						ImageURL: in["imageUrl"].(string),
					})
				},
			},
			"deletePost": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := feedSvc.Delete(p.Context, middleware.IdentityFrom(p.Context), p.Args["id"].(string)); err != nil {
						return nil, err
					}
					return true, nil
				},
			},
			"updateStatus": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"status": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return authSvc.UpdateStatus(p.Context, middleware.IdentityFrom(p.Context), p.Args["status"].(string))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}
