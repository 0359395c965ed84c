// Package domain reúne os tipos das decisões de admissão: chave do cliente,
// token bucket, contador de janela fixa, pool de vagas e eventos de stats.
//
// Nada aqui importa net/http, Redis ou x/time; as implementações ficam em infra.
package domain
