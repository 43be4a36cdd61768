package shopify

const productFields = `
fragment ProductFields on Product {
  id
  title
  description
  handle
  vendor
  productType
  tags
  images(first: 20) {
    edges { node { url altText } }
  }
  variants(first: 100) {
    edges {
      node {
        id
        title
        availableForSale
        price { amount currencyCode }
        compareAtPrice { amount currencyCode }
        selectedOptions { name value }
      }
    }
  }
}`

const cartFields = `
fragment CartFields on Cart {
  id
  checkoutUrl
  lines(first: 250) {
    edges {
      node {
        id
        quantity
        merchandise { ... on ProductVariant { id } }
      }
    }
  }
}`

const productsQuery = `
query Products($first: Int!) {
  products(first: $first) {
    edges { node { ...ProductFields } }
  }
}` + productFields

const productByHandleQuery = `
query ProductByHandle($handle: String!) {
  product(handle: $handle) { ...ProductFields }
}` + productFields

const cartQuery = `
query Cart($id: ID!) {
  cart(id: $id) { ...CartFields }
}` + cartFields

const cartCreateMutation = `
mutation CartCreate($lines: [CartLineInput!]) {
  cartCreate(input: { lines: $lines }) {
    cart { ...CartFields }
    userErrors { field message }
  }
}` + cartFields

const cartLinesAddMutation = `
mutation CartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
  cartLinesAdd(cartId: $cartId, lines: $lines) {
    cart { ...CartFields }
    userErrors { field message }
  }
}` + cartFields

const cartLinesUpdateMutation = `
mutation CartLinesUpdate($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
  cartLinesUpdate(cartId: $cartId, lines: $lines) {
    cart { ...CartFields }
    userErrors { field message }
  }
}` + cartFields

const cartLinesRemoveMutation = `
mutation CartLinesRemove($cartId: ID!, $lineIds: [ID!]!) {
  cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
    cart { ...CartFields }
    userErrors { field message }
  }
}` + cartFields
